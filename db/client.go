package db

import (
	"errors"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

type BoltDB struct {
	db     *bolt.DB
	logger *zap.Logger
}

func NewBoltDB(dbPath string, logger *zap.Logger) (*BoltDB, error) {
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = setupNodesBucket(db)
	if err != nil {
		return nil, err
	}
	err = setupMetaBucket(db)
	if err != nil {
		return nil, err
	}
	err = setupStateBucket(db)
	if err != nil {
		return nil, err
	}
	store := &BoltDB{db, logger}
	if err := store.Migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (db *BoltDB) Close() error {
	return db.db.Close()
}
