// internal/repository/holding_repo.go
package repository

import (
	"context"

	"stockfolio/internal/domain"
)

// HoldingRepository defines the interface for holding data operations.
type HoldingRepository interface {
	// GetHoldingForUpdate retrieves the holding with a row-level lock.
	// Must run inside a transaction.
	GetHoldingForUpdate(ctx context.Context, q DBExecutor, userID int64, symbol string) (*domain.Holding, error)
	// ListHoldingsByUserID retrieves all holdings for a user, ordered by symbol.
	ListHoldingsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Holding, error)
	// AddShares creates the holding with the given share count, or increments
	// an existing holding. Returns the resulting share count.
	AddShares(ctx context.Context, q DBExecutor, userID int64, symbol string, shares int64) (int64, error)
	// RemoveShares decrements an existing holding. Returns the remaining
	// share count. The caller must ensure shares < current holding.
	RemoveShares(ctx context.Context, q DBExecutor, userID int64, symbol string, shares int64) (int64, error)
	// DeleteHolding removes the holding row entirely (position fully sold).
	DeleteHolding(ctx context.Context, q DBExecutor, userID int64, symbol string) error
}
