// internal/domain/quote.go
package domain

import "github.com/shopspring/decimal"

// Quote is a provider-supplied current price and name for a symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}
