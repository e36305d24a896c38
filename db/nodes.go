package db

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/utils"
)

var nodesBucketName = []byte("Nodes")
var metaBucketName = []byte("Meta")

var schemaVersionKey = []byte("schemaVersion")

func setupNodesBucket(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(nodesBucketName)
		return err
	})
}

func setupMetaBucket(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(metaBucketName)
		return err
	})
}

// Migrate reseeds the Nodes bucket from the built-in list when the stored
// schema version does not match SchemaVersion. The reseed is wholesale:
// locally added records do not survive a version bump. Runs once at open,
// reads never trigger it.
func (db *BoltDB) Migrate() error {
	return db.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(metaBucketName)
		stored := meta.Get(schemaVersionKey)
		if bytes.Equal(stored, []byte(SchemaVersion)) {
			return nil
		}

		db.logger.Info("node schema version changed, reseeding store",
			zap.String("stored", string(stored)),
			zap.String("expected", SchemaVersion),
		)

		if err := tx.DeleteBucket(nodesBucketName); err != nil {
			return err
		}
		bucket, err := tx.CreateBucket(nodesBucketName)
		if err != nil {
			return err
		}
		for _, node := range SeedNodes() {
			value, err := json.Marshal(node)
			if err != nil {
				return err
			}
			if err := bucket.Put(utils.Uint64ToBytes(node.NodeID), value); err != nil {
				return err
			}
		}
		return meta.Put(schemaVersionKey, []byte(SchemaVersion))
	})
}

func (db *BoltDB) ListNodes() ([]WifiNode, error) {
	var nodes []WifiNode
	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(nodesBucketName)
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var node WifiNode
			if err := json.Unmarshal(v, &node); err != nil {
				db.logger.Warn("skipping malformed node record", zap.Error(err))
				continue
			}
			nodes = append(nodes, node)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (db *BoltDB) GetNode(nodeID uint64) (*WifiNode, error) {
	var node WifiNode
	err := db.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(nodesBucketName)
		value := bucket.Get(utils.Uint64ToBytes(nodeID))
		if value == nil {
			return ErrNotFound
		}
		return json.Unmarshal(value, &node)
	})
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// ReplaceNodes overwrites the whole bucket with the given list.
func (db *BoltDB) ReplaceNodes(nodes []WifiNode) error {
	return db.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(nodesBucketName); err != nil {
			return err
		}
		bucket, err := tx.CreateBucket(nodesBucketName)
		if err != nil {
			return err
		}
		for _, node := range nodes {
			value, err := json.Marshal(node)
			if err != nil {
				return err
			}
			if err := bucket.Put(utils.Uint64ToBytes(node.NodeID), value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *BoltDB) AddNode(node *WifiNode) error {
	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	value, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(nodesBucketName)
		return bucket.Put(utils.Uint64ToBytes(node.NodeID), value)
	})
}

// PatchNode applies the non-nil fields of patch to the stored node and
// stamps updated_at. Unknown node ids are a no-op.
func (db *BoltDB) PatchNode(nodeID uint64, patch NodePatch) error {
	return db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(nodesBucketName)
		key := utils.Uint64ToBytes(nodeID)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		var node WifiNode
		if err := json.Unmarshal(value, &node); err != nil {
			db.logger.Warn("patch target is malformed, leaving as is",
				zap.Uint64("node_id", nodeID), zap.Error(err))
			return nil
		}

		if patch.Location != nil {
			node.Location = *patch.Location
		}
		if patch.PricePerHourETH != nil {
			node.PricePerHourETH = *patch.PricePerHourETH
		}
		if patch.PricePerHourUSD != nil {
			node.PricePerHourUSD = *patch.PricePerHourUSD
		}
		if patch.ReputationScore != nil {
			node.ReputationScore = *patch.ReputationScore
		}
		if patch.TotalConnections != nil {
			node.TotalConnections = *patch.TotalConnections
		}
		if patch.IsActive != nil {
			node.IsActive = *patch.IsActive
		}
		if patch.Upvotes != nil {
			node.Upvotes = *patch.Upvotes
		}
		if patch.Downvotes != nil {
			node.Downvotes = *patch.Downvotes
		}
		if patch.LastSyncedAt != nil {
			node.LastSyncedAt = *patch.LastSyncedAt
		}
		node.UpdatedAt = time.Now().UTC()

		updated, err := json.Marshal(node)
		if err != nil {
			return err
		}
		return bucket.Put(key, updated)
	})
}

func (db *BoltDB) RemoveNode(nodeID uint64) error {
	return db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(nodesBucketName)
		return bucket.Delete(utils.Uint64ToBytes(nodeID))
	})
}

// ClearNodes empties the bucket and drops the version tag, so the next
// Migrate reseeds.
func (db *BoltDB) ClearNodes() error {
	return db.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(nodesBucketName); err != nil {
			return err
		}
		if _, err := tx.CreateBucket(nodesBucketName); err != nil {
			return err
		}
		meta := tx.Bucket(metaBucketName)
		return meta.Delete(schemaVersionKey)
	})
}

func (db *BoltDB) SyncStatus() (*SyncStatus, error) {
	nodes, err := db.ListNodes()
	if err != nil {
		return nil, err
	}
	status := &SyncStatus{TotalNodes: len(nodes)}
	for _, node := range nodes {
		if node.LastSyncedAt.After(status.LastSyncedAt) {
			status.LastSyncedAt = node.LastSyncedAt
		}
	}
	return status, nil
}
