// Package money parses and formats the cent-precision amounts used by the ledger.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for input that is not a positive amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Cents is the number of fractional digits kept for every amount.
const Cents = 2

// ParseAmount converts free-form price input to a positive amount rounded
// half-up to cents.
//
// Currency symbols, thousands separators and spaces are stripped. A minus
// sign anywhere in the input is rejected rather than stripped.
//
//	ParseAmount("$1,234.565") -> 1234.57
//	ParseAmount("-5")         -> ErrInvalidAmount
//	ParseAmount("0.004")      -> ErrInvalidAmount (rounds to zero)
func ParseAmount(raw string) (decimal.Decimal, error) {
	if strings.Contains(raw, "-") {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, raw)
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" || cleaned == "." {
		return decimal.Zero, fmt.Errorf("%w: %q has no digits", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	d = Round(d)
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q is not positive", ErrInvalidAmount, raw)
	}
	return d, nil
}

// Round rounds to cents, half away from zero (half-up for positive amounts).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Cents)
}

// IsCents reports whether d has no more than two fractional digits.
func IsCents(d decimal.Decimal) bool {
	return d.Equal(Round(d))
}

// Format renders d as "$12.30" (negative values as "$-12.30").
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(Cents)
}
