package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastValidated saves the unix time of the last accepted access token check
	SaveLastValidated(ctx context.Context, timestamp int64) error

	// GetLastValidated retrieves the unix time of the last accepted access token check
	// Returns 0 if the token has never been validated
	GetLastValidated(ctx context.Context) (int64, error)
}
