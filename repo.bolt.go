package main

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltSlot struct {
	logger *zap.Logger
	client *bolt.DB
	bucket string
	path   string
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *BoltDBConfig) (*bolt.DB, error) {
	db, err := bolt.Open(config.FilePath, 0o600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltSlot provides a slot stored inside a bolt bucket.
func NewBoltSlot(logger *zap.Logger, config *BoltDBConfig, client *bolt.DB) Slot {
	return &boltSlot{
		logger: logger,
		client: client,
		bucket: config.BucketName,
		path:   config.FilePath,
	}
}

// Close shuts down the bolt database.
func (bs *boltSlot) Close() error {
	return bs.client.Close()
}

// Get retrieves the value of key from the bucket.
func (bs *boltSlot) Get(_ context.Context, key string) (string, bool, error) {
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return "", false, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.bucket)).Get([]byte(key))
	if result == nil {
		return "", false, nil
	}
	// result is only valid during the transaction.
	return string(result), true, nil
}

// Set replaces the value of key inside the bucket.
func (bs *boltSlot) Set(_ context.Context, key string, value string) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.bucket)).Put([]byte(key), []byte(value))
	})
}
