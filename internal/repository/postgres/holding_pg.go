// internal/repository/postgres/holding_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stockfolio/internal/domain"
	"stockfolio/internal/repository"
	"stockfolio/internal/util"
)

// HoldingRepository implements repository.HoldingRepository for PostgreSQL.
type HoldingRepository struct{}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(db *sqlx.DB) repository.HoldingRepository {
	return &HoldingRepository{}
}

// GetHoldingForUpdate retrieves the holding with FOR UPDATE row locking.
func (r *HoldingRepository) GetHoldingForUpdate(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) (*domain.Holding, error) {
	var holding domain.Holding
	query := `SELECT user_id, symbol, shares, updated_at FROM holdings WHERE user_id = $1 AND symbol = $2 FOR UPDATE`
	err := q.GetContext(ctx, &holding, query, userID, symbol)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, storageErr(fmt.Sprintf("failed to lock holding (%d, %s)", userID, symbol), err)
	}
	return &holding, nil
}

// ListHoldingsByUserID retrieves all holdings for a user, ordered by symbol.
func (r *HoldingRepository) ListHoldingsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	query := `SELECT user_id, symbol, shares, updated_at FROM holdings WHERE user_id = $1 ORDER BY symbol`
	if err := q.SelectContext(ctx, &holdings, query, userID); err != nil {
		return nil, storageErr(fmt.Sprintf("failed to list holdings for user %d", userID), err)
	}
	return holdings, nil
}

// AddShares creates the holding or increments an existing one, returning the
// resulting share count. The upsert keeps "first buy" and "subsequent buy"
// a single statement.
func (r *HoldingRepository) AddShares(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, shares int64) (int64, error) {
	query := `INSERT INTO holdings (user_id, symbol, shares, updated_at)
              VALUES ($1, $2, $3, NOW())
              ON CONFLICT (user_id, symbol)
              DO UPDATE SET shares = holdings.shares + EXCLUDED.shares, updated_at = NOW()
              RETURNING shares`
	var total int64
	if err := q.QueryRowContext(ctx, query, userID, symbol, shares).Scan(&total); err != nil {
		return 0, storageErr(fmt.Sprintf("failed to add %d shares to holding (%d, %s)", shares, userID, symbol), err)
	}
	return total, nil
}

// RemoveShares decrements an existing holding, returning the remaining share
// count. The CHECK (shares > 0) constraint rejects a decrement to zero or
// below; full liquidation goes through DeleteHolding instead.
func (r *HoldingRepository) RemoveShares(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, shares int64) (int64, error) {
	query := `UPDATE holdings SET shares = shares - $1, updated_at = NOW()
              WHERE user_id = $2 AND symbol = $3
              RETURNING shares`
	var remaining int64
	err := q.QueryRowContext(ctx, query, shares, userID, symbol).Scan(&remaining)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, util.ErrNotFound
		}
		return 0, storageErr(fmt.Sprintf("failed to remove %d shares from holding (%d, %s)", shares, userID, symbol), err)
	}
	return remaining, nil
}

// DeleteHolding removes the holding row entirely.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) error {
	query := `DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`
	result, err := q.ExecContext(ctx, query, userID, symbol)
	if err != nil {
		return storageErr(fmt.Sprintf("failed to delete holding (%d, %s)", userID, symbol), err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr(fmt.Sprintf("failed to get rows affected deleting holding (%d, %s)", userID, symbol), err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
