// internal/repository/user_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user to the database using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByIDForUpdate retrieves a user by ID with a row-level lock.
	// Must run inside a transaction; it serializes concurrent trades for the
	// same user until the transaction ends.
	GetUserByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
	GetUserByUsername(ctx context.Context, q DBExecutor, username string) (*domain.User, error)
	// AdjustCash applies a signed delta to a user's cash balance.
	AdjustCash(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) error
}
