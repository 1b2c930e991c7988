// Package memory implements an in-process session store.
// Used in tests and when the client runs with --db :memory:.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/iudanet/coursemanager/internal/client/storage"
)

var (
	_ storage.Store           = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// Storage - потокобезопасное хранилище в памяти
type Storage struct {
	records       map[string][]byte
	mu            sync.RWMutex
	lastValidated int64
}

// New creates an empty in-memory storage
func New() *Storage {
	return &Storage{
		records: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, storage.ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return bytes.Clone(value), nil
}

// Set stores a copy of value under key
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	return s.SetAll(ctx, map[string][]byte{key: value})
}

// Remove deletes key
func (s *Storage) Remove(ctx context.Context, key string) error {
	return s.RemoveAll(ctx, key)
}

// SetAll stores all entries under a single lock
func (s *Storage) SetAll(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for key := range entries {
		if key == "" {
			return storage.ErrEmptyKey
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range entries {
		// копия, чтобы вызывающий не мог изменить сохранённое значение
		s.records[key] = bytes.Clone(value)
	}
	return nil
}

// RemoveAll deletes all keys under a single lock
func (s *Storage) RemoveAll(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, key := range keys {
		if key == "" {
			return storage.ErrEmptyKey
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

// Len returns the number of stored records
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// SaveLastValidated saves the unix time of the last accepted token check
func (s *Storage) SaveLastValidated(ctx context.Context, timestamp int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastValidated = timestamp
	s.mu.Unlock()
	return nil
}

// GetLastValidated returns 0 if no check was recorded
func (s *Storage) GetLastValidated(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastValidated, nil
}
