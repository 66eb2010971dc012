// Package money represents currency amounts as integer cents.
//
// Prices enter the system as text typed by a user or as numbers returned by the
// OCR service. Both are parsed with shopspring/decimal and committed as Cents;
// all split arithmetic happens on Cents and is converted back to a two-decimal
// string only for display.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned for malformed, negative or oversized prices.
var ErrInvalidPrice = errors.New("invalid price")

// Cents is an amount in the smallest currency unit.
type Cents int64

const (
	// Zero is the zero amount.
	Zero Cents = 0

	// MaxPrice is the largest accepted line item price (one billion units).
	// Receipt sums and rate products stay well inside int64 below it.
	MaxPrice Cents = 100_000_000_000
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(int64(MaxPrice))
)

// ParsePrice parses user input leniently. A currency symbol, thousands
// separators, surrounding whitespace and a dangling decimal point are accepted
// so that partially typed values like "$12." still commit. Values with more than
// two decimals are rounded half away from zero.
func ParsePrice(input string) (Cents, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidPrice)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, input)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount to cents, rejecting negatives and
// amounts above MaxPrice.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidPrice, d.String())
	}
	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrInvalidPrice, d.String(), MaxPrice)
	}
	return Cents(cents.IntPart()), nil
}

// Decimal returns the amount as a decimal number of currency units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with two decimals, e.g. "12.30".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// ApplyRate returns c × rate rounded half away from zero to the nearest cent.
func (c Cents) ApplyRate(rate decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(c)).Mul(rate).Round(0).IntPart())
}

// Split divides c into n shares whose sum is exactly c. The first c%n shares
// carry one extra cent.
func (c Cents) Split(n int) []Cents {
	if n <= 0 {
		return nil
	}
	base := c / Cents(n)
	rem := int(c % Cents(n))
	shares := make([]Cents, n)
	for i := range shares {
		shares[i] = base
		if i < rem {
			shares[i]++
		}
	}
	return shares
}
