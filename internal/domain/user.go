// internal/domain/user.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account holder with a cash balance.
type User struct {
	ID        int64           `db:"id" json:"id"`
	Username  string          `db:"username" json:"username"`
	Cash      decimal.Decimal `db:"cash" json:"cash"` // NUMERIC(20, 2) in DB, never negative
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance with the given starting cash.
func NewUser(username string, startingCash decimal.Decimal) *User {
	now := time.Now().UTC()
	return &User{
		Username:  username,
		Cash:      startingCash,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
