package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/coursemanager/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	// Используем in-memory database для тестов
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func createTestUser(t *testing.T, ctx context.Context, s *Storage) int64 {
	t.Helper()

	user := &models.Account{
		Email:        "user_" + uuid.NewString()[:8] + "@x.com",
		FullName:     "Test User",
		PasswordHash: "hash",
		Roles:        []models.Role{models.RoleUser},
		CreatedAt:    time.Now(),
	}

	require.NoError(t, s.CreateUser(ctx, user))
	return user.ID
}

func TestNew_FileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "server.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	userID := createTestUser(t, ctx, s)
	require.NoError(t, s.Close())

	// Повторное открытие: миграции уже применены, данные на месте
	s, err = New(ctx, path)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	user, err := s.GetUserByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleUser}, user.Roles)
	assert.NoError(t, s.Ping(ctx))
}

func TestStorage_Tables(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	for _, table := range []string{"users", "user_roles", "refresh_tokens"} {
		var name string
		err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}
