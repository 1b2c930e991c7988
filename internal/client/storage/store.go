package storage

import (
	"context"
)

// Ключи записей Session Store
const (
	// KeySession - пара токенов текущей сессии
	KeySession = "user"
	// KeyProfile - профиль пользователя текущей сессии
	KeyProfile = "userProfile"
)

// Store defines the durable key-value surface that holds the current
// session on the client. Values are opaque bytes (JSON-serialized models);
// the store itself never interprets them.
//
// The auth manager is the only writer. Every other component reads.
type Store interface {
	// Get returns the raw value stored under key.
	// Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// SetAll stores all entries atomically: either every entry is written or none.
	SetAll(ctx context.Context, entries map[string][]byte) error

	// RemoveAll deletes all keys atomically.
	RemoveAll(ctx context.Context, keys ...string) error
}
