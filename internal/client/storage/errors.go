package storage

import "errors"

// Common client storage errors
var (
	// ErrNotFound indicates that no record exists under the key
	ErrNotFound = errors.New("record not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrEmptyKey is returned for operations on an empty key
	ErrEmptyKey = errors.New("empty key")

	// ErrCorrupt - запись есть, но прочитать её нельзя (например, не прошла проверку подлинности)
	ErrCorrupt = errors.New("record is corrupt")
)
