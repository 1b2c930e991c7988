package storage

import (
	"context"
	"time"

	"github.com/iudanet/coursemanager/internal/models"
)

// UserStorage defines interface for account persistence
type UserStorage interface {
	// CreateUser creates a new account and sets its ID.
	// Email comparison is case-insensitive.
	// Returns ErrUserAlreadyExists if email is taken
	CreateUser(ctx context.Context, user *models.Account) error

	// GetUserByEmail retrieves account by email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetUserByID retrieves account by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.Account, error)

	// UpdateUser replaces profile fields, password hash and roles
	// Returns ErrUserNotFound if user doesn't exist,
	// ErrUserAlreadyExists if the new email is taken
	UpdateUser(ctx context.Context, user *models.Account) error

	// DeleteUser deletes account by ID together with its roles and tokens
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID int64) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID int64, lastLogin time.Time) error
}
