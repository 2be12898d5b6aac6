// internal/domain/shares.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stockfolio/internal/util"
)

// ParseShareCount validates a caller-supplied share count and converts it to
// an int64. Checks run in a fixed order (presence, numeric, whole number,
// range) so failure messages are deterministic.
func ParseShareCount(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: shares must be provided", util.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: shares must be a number", util.ErrInvalidInput)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: shares must be a whole number", util.ErrInvalidInput)
	}
	if d.LessThan(decimal.NewFromInt(1)) {
		return 0, fmt.Errorf("%w: shares must be at least 1", util.ErrInvalidInput)
	}
	return d.IntPart(), nil
}

// ValidateCashAmount checks a cash top-up amount: positive, with at most two
// decimal places.
func ValidateCashAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", util.ErrInvalidInput)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: amount must have at most two decimal places", util.ErrInvalidInput)
	}
	return nil
}
