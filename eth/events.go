package eth

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/db"
)

const blocksInBatch uint64 = 10000

// Marketplace deployment block on Scroll; catch-up never scans earlier.
var startBlock = big.NewInt(5214300)

var (
	nodeRatedTopic         = crypto.Keccak256Hash([]byte("NodeRated(uint256,address,bool)"))
	reputationUpdatedTopic = crypto.Keccak256Hash([]byte("ReputationUpdated(address,uint256)"))
)

// logSource is the slice of ethclient.Client the follower uses; tests
// substitute fakes.
type logSource interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// Events follows marketplace rating events and keeps the local node
// cache's vote counters in step with the chain.
type Events struct {
	config *Config
	client logSource
	ctx    context.Context

	logger *zap.Logger

	db *db.BoltDB

	// sleep is swapped out in tests so reconnect backoff is instant
	sleep func(time.Duration)
}

func NewEvents(ctx context.Context, config *Config, db *db.BoltDB, logger *zap.Logger) *Events {
	return &Events{
		config: config,
		ctx:    ctx,
		logger: logger,
		db:     db,
		sleep:  time.Sleep,
	}
}

func (e *Events) Start() error {
	return e.connect()
}

func (e *Events) connect() error {
	client, err := ethclient.Dial(e.config.RPCUrl)
	if err != nil {
		return err
	}
	e.client = client
	return nil
}

// catchupStart picks the first block the catch-up still needs: the block
// after the persisted one, never earlier than the deployment block. ok is
// false when the chain head has not reached that block yet.
func catchupStart(lastBlock *big.Int, currentBlock uint64) (*big.Int, bool) {
	from := new(big.Int).Set(startBlock)
	if lastBlock != nil && lastBlock.Uint64() >= from.Uint64() {
		from = new(big.Int).Add(lastBlock, big.NewInt(1))
	}
	if currentBlock < from.Uint64() {
		return nil, false
	}
	return from, true
}

// batchEnd caps one batch at blocksInBatch blocks. Ranges are inclusive
// on both ends, so the next batch starts one past the returned block.
func batchEnd(fromBlock *big.Int, currentBlock uint64) (*big.Int, bool) {
	if currentBlock-fromBlock.Uint64() > blocksInBatch {
		return new(big.Int).SetUint64(fromBlock.Uint64() + blocksInBatch), false
	}
	return new(big.Int).SetUint64(currentBlock), true
}

// FetchRatingEvents catches up from the persisted last block in fixed
// size batches, saving progress after every batch.
func (e *Events) FetchRatingEvents() error {
	e.logger.Info("fetching node rating events")

	currentBlock, err := e.client.BlockNumber(e.ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get current block")
	}

	latestBlock, err := e.db.GetLastBlock()
	if err != nil {
		e.logger.Error("failed to get latest block", zap.Error(err))
	}

	fromBlock, ok := catchupStart(latestBlock, currentBlock)
	if !ok {
		e.logger.Info("no new blocks to fetch", zap.Uint64("head", currentBlock))
		return nil
	}

	e.logger.Info("fetching events from block", zap.String("from", fromBlock.String()))

	for {
		toBlock, stop := batchEnd(fromBlock, currentBlock)

		if err := e.fetchEvents(fromBlock, toBlock); err != nil {
			return err
		}

		if err := e.db.SaveLastBlock(toBlock); err != nil {
			e.logger.Error("failed to save last block", zap.Error(err))
		}
		if stop {
			e.logger.Info("finished fetching events")
			break
		}
		fromBlock = new(big.Int).Add(toBlock, big.NewInt(1))
	}

	return nil
}

func (e *Events) reconnect(retries int, delay time.Duration) {
	for i := 0; i < retries; i++ {
		if err := e.connect(); err != nil {
			e.logger.Warn("connection failed, retrying...", zap.Int("retry", i+1), zap.Error(err))
			e.sleep(delay)
			continue
		}

		if err := e.ListenRatingEvents(); err != nil {
			e.logger.Error("failed to listen after reconnect", zap.Error(err))
		}

		return
	}

	e.logger.Panic("failed to reconnect to eth node")
}

// ListenRatingEvents subscribes to live rating logs and applies them as
// they arrive.
func (e *Events) ListenRatingEvents() error {
	e.logger.Info("listening to node rating events")

	logs := make(chan types.Log)

	sub, err := e.client.SubscribeFilterLogs(e.ctx, e.filterQuery(nil, nil), logs)
	if err != nil {
		return errors.Wrap(err, "failed to subscribe to logs")
	}

	go func() {
		if err := e.listenToSubscription(sub, logs); err != nil {
			e.reconnect(5, 10*time.Second)
		}
	}()

	return nil
}

func (e *Events) listenToSubscription(sub ethereum.Subscription, logs chan types.Log) error {
	for {
		select {
		case err := <-sub.Err():
			e.logger.Warn("failed to read logs from subscription", zap.Error(err))
			return err
		case vLog := <-logs:
			if err := e.handleNewEvent(vLog); err != nil {
				e.logger.Error("failed to handle new event", zap.Error(err))
			}
		}
	}
}

func (e *Events) filterQuery(fromBlock, toBlock *big.Int) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{
			common.HexToAddress(e.config.ContractAddress),
		},
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Topics: [][]common.Hash{{
			nodeRatedTopic,
			reputationUpdatedTopic,
		}},
	}
}

func (e *Events) fetchEvents(fromBlock *big.Int, toBlock *big.Int) error {
	logs, err := e.client.FilterLogs(e.ctx, e.filterQuery(fromBlock, toBlock))
	if err != nil {
		e.logger.Error("failed to filter logs", zap.Error(err))
		return err
	}

	for _, vLog := range logs {
		if err := e.handleNewEvent(vLog); err != nil {
			e.logger.Error("failed to handle new event", zap.Error(err))
		}
	}

	return nil
}

func (e *Events) handleNewEvent(log types.Log) error {
	if log.Removed || len(log.Topics) == 0 {
		return nil
	}

	switch log.Topics[0] {
	case nodeRatedTopic:
		return e.handleNodeRated(log)
	case reputationUpdatedTopic:
		return e.handleReputationUpdated(log)
	}
	return nil
}

func (e *Events) handleNodeRated(log types.Log) error {
	if len(log.Topics) < 3 {
		e.logger.Warn("malformed NodeRated event",
			zap.Uint64("block", log.BlockNumber),
			zap.String("tx", log.TxHash.Hex()),
		)
		return nil
	}

	nodeID := new(big.Int).SetBytes(log.Topics[1].Bytes()).Uint64()
	rater := common.BytesToAddress(log.Topics[2].Bytes())

	unpacked, err := marketABI.Unpack("NodeRated", log.Data)
	if err != nil || len(unpacked) == 0 {
		e.logger.Warn("could not parse NodeRated event, the event is malformed",
			zap.Uint64("block", log.BlockNumber),
			zap.String("tx", log.TxHash.Hex()),
			zap.Error(err),
		)
		return nil
	}
	isPositive, ok := unpacked[0].(bool)
	if !ok {
		return nil
	}

	e.logger.Info("received node rated event",
		zap.Uint64("node_id", nodeID),
		zap.String("rater", rater.Hex()),
		zap.Bool("positive", isPositive),
	)
	return e.applyRating(nodeID, isPositive)
}

// applyRating bumps the cached vote counters. Nodes that are not cached
// locally are skipped; the cache only mirrors nodes it already knows.
func (e *Events) applyRating(nodeID uint64, isPositive bool) error {
	node, err := e.db.GetNode(nodeID)
	if err == db.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	patch := db.NodePatch{LastSyncedAt: &now}
	if isPositive {
		up := node.Upvotes + 1
		patch.Upvotes = &up
	} else {
		down := node.Downvotes + 1
		patch.Downvotes = &down
	}
	return e.db.PatchNode(nodeID, patch)
}

func (e *Events) handleReputationUpdated(log types.Log) error {
	if len(log.Topics) < 2 {
		return nil
	}
	user := common.BytesToAddress(log.Topics[1].Bytes())

	unpacked, err := marketABI.Unpack("ReputationUpdated", log.Data)
	if err != nil || len(unpacked) == 0 {
		e.logger.Warn("could not parse ReputationUpdated event", zap.Error(err))
		return nil
	}
	newScore, _ := unpacked[0].(*big.Int)

	// user reputation has no local record, log it for operators
	e.logger.Info("received reputation updated event",
		zap.String("user", user.Hex()),
		zap.Any("new_score", newScore),
	)
	return nil
}
