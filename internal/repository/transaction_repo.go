// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"stockfolio/internal/domain"
)

// TransactionRepository defines the interface for the append-only trade log.
type TransactionRepository interface {
	// AppendTransaction adds a new transaction record using the provided DBExecutor.
	// Records are never updated or deleted.
	AppendTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// ListTransactionsByUserID retrieves a page of a user's transactions in
	// insertion order (ascending id), plus the total count.
	ListTransactionsByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}
