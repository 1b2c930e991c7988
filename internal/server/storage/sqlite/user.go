package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/coursemanager/internal/models"
	"github.com/iudanet/coursemanager/internal/server/storage"
)

// querier - общее у *sql.DB и *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const selectUser = `
	SELECT id, email, full_name, phone, password_hash, created_at, last_login
	FROM users
`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.Account) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO users (email, full_name, phone, password_hash, created_at, last_login)
			VALUES (?, ?, ?, ?, ?, ?)
		`

		result, err := tx.ExecContext(ctx, query,
			user.Email,
			user.FullName,
			user.Phone,
			user.PasswordHash,
			unix(user.CreatedAt),
			nullUnix(user.LastLogin),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrUserAlreadyExists
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get user id: %w", err)
		}

		if err := replaceRoles(ctx, tx, id, user.Roles); err != nil {
			return err
		}

		user.ID = id
		return nil
	})
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.Account, error) {
	return getUser(ctx, s.db, selectUser+` WHERE email = ?`, email)
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.Account, error) {
	return getUser(ctx, s.db, selectUser+` WHERE id = ?`, userID)
}

// UpdateUser updates user information
func (s *Storage) UpdateUser(ctx context.Context, user *models.Account) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE users
			SET email = ?, full_name = ?, phone = ?, password_hash = ?, last_login = ?
			WHERE id = ?
		`

		result, err := tx.ExecContext(ctx, query,
			user.Email,
			user.FullName,
			user.Phone,
			user.PasswordHash,
			nullUnix(user.LastLogin),
			user.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrUserAlreadyExists
			}
			return fmt.Errorf("failed to update user: %w", err)
		}

		if err := expectRow(result, storage.ErrUserNotFound); err != nil {
			return err
		}

		return replaceRoles(ctx, tx, user.ID, user.Roles)
	})
}

// DeleteUser deletes user by ID
func (s *Storage) DeleteUser(ctx context.Context, userID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return expectRow(result, storage.ErrUserNotFound)
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(ctx context.Context, userID int64, lastLogin time.Time) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, unix(lastLogin), userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return expectRow(result, storage.ErrUserNotFound)
}

func getUser(ctx context.Context, q querier, query string, arg any) (*models.Account, error) {
	user := &models.Account{}
	var (
		createdAt int64
		lastLogin sql.NullInt64
	)

	err := q.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Phone,
		&user.PasswordHash,
		&createdAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = fromUnix(createdAt)
	if lastLogin.Valid {
		t := fromUnix(lastLogin.Int64)
		user.LastLogin = &t
	}

	roles, err := loadRoles(ctx, q, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles

	return user, nil
}

func loadRoles(ctx context.Context, q querier, userID int64) ([]models.Role, error) {
	rows, err := q.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var roles []models.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, models.Role(role))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return roles, nil
}

func replaceRoles(ctx context.Context, tx *sql.Tx, userID int64, roles []models.Role) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear roles: %w", err)
	}

	for _, role := range roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`, userID, string(role),
		); err != nil {
			return fmt.Errorf("failed to insert role: %w", err)
		}
	}

	return nil
}

// inTx выполняет fn в транзакции; при ошибке делает rollback
func (s *Storage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return notFound
	}
	return nil
}

func nullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}
