// internal/domain/holding.go
package domain

import "time"

// Holding is a user's aggregated position in one symbol. A holding with zero
// shares is never stored; the row is deleted when the last share is sold.
type Holding struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	Symbol    string    `db:"symbol" json:"symbol"`
	Shares    int64     `db:"shares" json:"shares"` // always > 0 when stored
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
