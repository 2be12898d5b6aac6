// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one immutable entry in the trade log. Shares is the signed
// delta: positive for a buy, negative for a sell. Price is the quoted price
// at execution time, not a caller-supplied value.
type Transaction struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"user_id"`
	Symbol     string          `db:"symbol" json:"symbol"`
	Price      decimal.Decimal `db:"price" json:"price"` // NUMERIC(20, 2) in DB
	Shares     int64           `db:"shares" json:"shares"`
	ExecutedAt time.Time       `db:"executed_at" json:"executed_at"`
}

// NewTransaction creates a new Transaction instance for the given trade.
func NewTransaction(userID int64, symbol string, price decimal.Decimal, shares int64) *Transaction {
	return &Transaction{
		UserID:     userID,
		Symbol:     symbol,
		Price:      price,
		Shares:     shares,
		ExecutedAt: time.Now().UTC(),
	}
}
