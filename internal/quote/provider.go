// internal/quote/provider.go
package quote

import (
	"context"

	"stockfolio/internal/domain"
)

// Provider supplies the current price and name for a symbol.
// Implementations must return util.ErrQuoteUnavailable (wrapped) when the
// symbol is unknown or the upstream source cannot be reached; the caller
// treats both the same way.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*domain.Quote, error)
}
