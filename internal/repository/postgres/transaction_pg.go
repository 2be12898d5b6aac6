// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"stockfolio/internal/domain"
	"stockfolio/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// AppendTransaction inserts a new trade log record using the provided DBExecutor.
func (r *TransactionRepository) AppendTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, symbol, price, shares, executed_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		transaction.Symbol,
		transaction.Price,
		transaction.Shares,
		transaction.ExecutedAt,
	).Scan(&transaction.ID)

	if err != nil {
		return storageErr("failed to append transaction", err)
	}
	return nil
}

// ListTransactionsByUserID retrieves a page of a user's transactions in
// insertion order, plus the total count.
func (r *TransactionRepository) ListTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT id, user_id, symbol, price, shares, executed_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3`
	err := q.SelectContext(ctx, &transactions, query, userID, limit, offset)
	if err != nil {
		return nil, 0, storageErr(fmt.Sprintf("failed to fetch transactions for user %d", userID), err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE user_id = $1`
	err = q.GetContext(ctx, &totalCount, countQuery, userID)
	if err != nil {
		return nil, 0, storageErr(fmt.Sprintf("failed to count transactions for user %d", userID), err)
	}

	return transactions, totalCount, nil
}
