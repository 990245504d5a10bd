// Package domain provides core domain types for the exchange connector.
// All financial values use decimal arithmetic via cockroachdb/apd for precision.
package domain

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Decimal is a type alias for apd.Decimal pointer, providing ergonomic decimal
// arithmetic. Using a pointer alias allows nil checks and avoids copying large
// structs. Comparison and string rendering are available directly on the
// underlying *apd.Decimal
// via Cmp and String; this package only adds construction from the venues'
// wire representation.
type Decimal = *apd.Decimal

// NewDecimal creates a new Decimal from a string representation, preserving
// the exact digits the venue sent rather than round-tripping through a
// binary float. Returns an error if the string cannot be parsed.
//
// Example:
//
//	price, err := domain.NewDecimal("50000.12345678")
func NewDecimal(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal string %q: %w", s, err)
	}
	return d, nil
}

// MustDecimal creates a new Decimal from a string, panicking on error.
// Use only for compile-time constants where the value is known to be valid.
//
// Example:
//
//	minPrice := domain.MustDecimal("0.01")
func MustDecimal(s string) Decimal {
	d, err := NewDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}
