package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/coursemanager/internal/client/storage"
)

const (
	keyLastValidated = "last_validated"
)

var _ storage.MetadataStorage = (*Storage)(nil)

// SaveLastValidated saves the unix time of the last accepted token check
func (s *Storage) SaveLastValidated(ctx context.Context, timestamp int64) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// int64 -> big endian
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(timestamp))

		if err := bucket.Put([]byte(keyLastValidated), buf); err != nil {
			return fmt.Errorf("failed to save last validated timestamp: %w", err)
		}

		return nil
	})
}

// GetLastValidated retrieves the unix time of the last accepted token check.
// Returns 0 if the token has never been validated
func (s *Storage) GetLastValidated(ctx context.Context) (int64, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	var timestamp int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		buf := bucket.Get([]byte(keyLastValidated))
		if len(buf) != 8 {
			timestamp = 0
			return nil
		}

		timestamp = int64(binary.BigEndian.Uint64(buf))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get last validated timestamp: %w", err)
	}

	return timestamp, nil
}
