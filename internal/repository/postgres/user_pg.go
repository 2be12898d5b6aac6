// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
	"stockfolio/internal/repository"
	"stockfolio/internal/util"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// storageErr wraps a driver failure so callers can match ErrStorageUnavailable
// while the underlying cause stays in the message.
func storageErr(msg string, err error) error {
	return fmt.Errorf("%s: %v: %w", msg, err, util.ErrStorageUnavailable)
}

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct {
	// Stateless; methods receive a DBExecutor so they run on a plain
	// connection or inside a transaction.
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (username, cash, created_at, updated_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query, user.Username, user.Cash, user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("username '%s' already taken: %w", user.Username, util.ErrDuplicateEntry)
		}
		return storageErr("failed to create user", err)
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, cash, created_at, updated_at FROM users WHERE id = $1`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, storageErr(fmt.Sprintf("failed to get user by ID %d", id), err)
	}
	return &user, nil
}

// GetUserByIDForUpdate retrieves a user by ID with FOR UPDATE row locking.
// Concurrent trades for the same user block here until the holding lock
// owner commits or rolls back.
func (r *UserRepository) GetUserByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, cash, created_at, updated_at FROM users WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, storageErr(fmt.Sprintf("failed to lock user %d", id), err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
func (r *UserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, cash, created_at, updated_at FROM users WHERE username = $1`
	err := q.GetContext(ctx, &user, query, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, storageErr(fmt.Sprintf("failed to get user by username '%s'", username), err)
	}
	return &user, nil
}

// AdjustCash applies a signed delta to the user's cash balance.
// The CHECK (cash >= 0) constraint is the last line of defense; services
// validate solvency before calling this.
func (r *UserRepository) AdjustCash(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	query := `UPDATE users SET cash = cash + $1, updated_at = NOW() WHERE id = $2`
	result, err := q.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return storageErr(fmt.Sprintf("failed to adjust cash for user %d", userID), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr(fmt.Sprintf("failed to get rows affected adjusting cash for user %d", userID), err)
	}
	if rowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}
