package boltdb

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/coursemanager/internal/client/storage"
)

var _ storage.Store = (*Storage)(nil)

// Get returns the value stored under key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, storage.ErrEmptyKey
	}

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrNotFound
		}

		// Значение валидно только внутри транзакции
		value = bytes.Clone(data)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores value under key
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	return s.SetAll(ctx, map[string][]byte{key: value})
}

// Remove deletes key; a missing key is not an error
func (s *Storage) Remove(ctx context.Context, key string) error {
	return s.RemoveAll(ctx, key)
}

// SetAll stores all entries in a single transaction
func (s *Storage) SetAll(ctx context.Context, entries map[string][]byte) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	for key := range entries {
		if key == "" {
			return storage.ErrEmptyKey
		}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		for key, value := range entries {
			if err := bucket.Put([]byte(key), value); err != nil {
				return fmt.Errorf("failed to save %q: %w", key, err)
			}
		}

		return nil
	})
}

// RemoveAll deletes all keys in a single transaction
func (s *Storage) RemoveAll(ctx context.Context, keys ...string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		for _, key := range keys {
			if key == "" {
				return storage.ErrEmptyKey
			}
			// Delete отсутствующего ключа в bbolt - не ошибка
			if err := bucket.Delete([]byte(key)); err != nil {
				return fmt.Errorf("failed to delete %q: %w", key, err)
			}
		}

		return nil
	})
}

// Keys returns all keys currently stored in the session bucket
func (s *Storage) Keys(ctx context.Context) ([]string, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

func (s *Storage) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return nil
}
