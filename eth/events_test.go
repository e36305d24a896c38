package eth

import (
	"context"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/db"
)

type fakeLogSource struct {
	head    uint64
	queries []ethereum.FilterQuery
	logs    map[uint64][]types.Log
}

func (f *fakeLogSource) BlockNumber(ctx context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakeLogSource) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.queries = append(f.queries, q)
	var out []types.Log
	for b := q.FromBlock.Uint64(); b <= q.ToBlock.Uint64(); b++ {
		out = append(out, f.logs[b]...)
	}
	return out, nil
}

func (f *fakeLogSource) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("no live stream")
}

func testEvents(t *testing.T) (*Events, *db.BoltDB) {
	t.Helper()
	store, err := db.NewBoltDB(filepath.Join(t.TempDir(), "nodes.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	events := NewEvents(context.Background(), &Config{}, store, zap.NewNop())
	events.sleep = func(time.Duration) {}
	return events, store
}

func nodeRatedLog(t *testing.T, nodeID uint64, positive bool) types.Log {
	t.Helper()
	data, err := marketABI.Events["NodeRated"].Inputs.NonIndexed().Pack(positive)
	if err != nil {
		t.Fatalf("failed to pack event data: %v", err)
	}
	return types.Log{
		Topics: []common.Hash{
			nodeRatedTopic,
			common.BigToHash(new(big.Int).SetUint64(nodeID)),
			common.HexToHash("0x000000000000000000000000742d35Cc6634C0532925a3b844Bc9e7595f0bEb0"),
		},
		Data: data,
	}
}

func TestHandleNodeRated_UpvoteBumpsCounter(t *testing.T) {
	events, store := testEvents(t)

	before, err := store.GetNode(2)
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}

	if err := events.handleNewEvent(nodeRatedLog(t, 2, true)); err != nil {
		t.Fatalf("handleNewEvent failed: %v", err)
	}

	after, err := store.GetNode(2)
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if after.Upvotes != before.Upvotes+1 {
		t.Errorf("upvotes = %d, want %d", after.Upvotes, before.Upvotes+1)
	}
	if after.Downvotes != before.Downvotes {
		t.Errorf("downvotes changed on an upvote")
	}
	if !after.LastSyncedAt.After(before.LastSyncedAt) {
		t.Error("last_synced_at was not advanced")
	}
}

func TestHandleNodeRated_DownvoteBumpsCounter(t *testing.T) {
	events, store := testEvents(t)

	before, _ := store.GetNode(3)
	if err := events.handleNewEvent(nodeRatedLog(t, 3, false)); err != nil {
		t.Fatalf("handleNewEvent failed: %v", err)
	}

	after, _ := store.GetNode(3)
	if after.Downvotes != before.Downvotes+1 {
		t.Errorf("downvotes = %d, want %d", after.Downvotes, before.Downvotes+1)
	}
}

func TestHandleNodeRated_UncachedNodeIsSkipped(t *testing.T) {
	events, store := testEvents(t)

	if err := events.handleNewEvent(nodeRatedLog(t, 9999, true)); err != nil {
		t.Fatalf("expected skip, got error: %v", err)
	}
	if _, err := store.GetNode(9999); err != db.ErrNotFound {
		t.Error("unknown node appeared in the store")
	}
}

func TestHandleNewEvent_RemovedLogIsIgnored(t *testing.T) {
	events, store := testEvents(t)

	before, _ := store.GetNode(2)
	log := nodeRatedLog(t, 2, true)
	log.Removed = true

	if err := events.handleNewEvent(log); err != nil {
		t.Fatalf("handleNewEvent failed: %v", err)
	}
	after, _ := store.GetNode(2)
	if after.Upvotes != before.Upvotes {
		t.Error("removed log still applied")
	}
}

func TestHandleNewEvent_UnknownTopicIsIgnored(t *testing.T) {
	events, _ := testEvents(t)

	log := types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}}
	if err := events.handleNewEvent(log); err != nil {
		t.Errorf("unknown topic should be ignored, got %v", err)
	}
}

func TestFetchRatingEvents_BoundaryLogAppliedOnce(t *testing.T) {
	events, store := testEvents(t)

	// a log landing exactly on the first batch boundary
	boundary := startBlock.Uint64() + blocksInBatch
	log := nodeRatedLog(t, 2, true)
	log.BlockNumber = boundary
	source := &fakeLogSource{
		head: boundary + 100,
		logs: map[uint64][]types.Log{boundary: {log}},
	}
	events.client = source

	before, err := store.GetNode(2)
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if err := events.FetchRatingEvents(); err != nil {
		t.Fatalf("FetchRatingEvents failed: %v", err)
	}
	after, err := store.GetNode(2)
	if err != nil {
		t.Fatalf("GetNode failed: %v", err)
	}
	if after.Upvotes != before.Upvotes+1 {
		t.Errorf("upvotes = %d, want %d", after.Upvotes, before.Upvotes+1)
	}

	for i := 1; i < len(source.queries); i++ {
		prevTo := source.queries[i-1].ToBlock.Uint64()
		from := source.queries[i].FromBlock.Uint64()
		if from != prevTo+1 {
			t.Errorf("batch %d starts at %d, want %d", i, from, prevTo+1)
		}
	}

	last, err := store.GetLastBlock()
	if err != nil {
		t.Fatalf("GetLastBlock failed: %v", err)
	}
	if last.Uint64() != source.head {
		t.Errorf("persisted last block = %d, want head %d", last.Uint64(), source.head)
	}
}

func TestFetchRatingEvents_ResumesAfterPersistedBlock(t *testing.T) {
	events, store := testEvents(t)

	saved := startBlock.Uint64() + 500
	if err := store.SaveLastBlock(new(big.Int).SetUint64(saved)); err != nil {
		t.Fatalf("SaveLastBlock failed: %v", err)
	}
	source := &fakeLogSource{head: saved + 100}
	events.client = source

	if err := events.FetchRatingEvents(); err != nil {
		t.Fatalf("FetchRatingEvents failed: %v", err)
	}
	if len(source.queries) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(source.queries))
	}
	if from := source.queries[0].FromBlock.Uint64(); from != saved+1 {
		t.Errorf("catch-up started at %d, want %d", from, saved+1)
	}
}

func TestFetchRatingEvents_HeadBelowDeploymentBlock(t *testing.T) {
	events, _ := testEvents(t)

	source := &fakeLogSource{head: startBlock.Uint64() - 10}
	events.client = source

	if err := events.FetchRatingEvents(); err != nil {
		t.Fatalf("FetchRatingEvents failed: %v", err)
	}
	if len(source.queries) != 0 {
		t.Errorf("expected no log queries below the deployment block, got %d", len(source.queries))
	}
}
