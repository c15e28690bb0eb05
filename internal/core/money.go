// Package core provides the domain model for the bookkeeping API.
//
// This file contains money parsing and JSON encoding. All arithmetic runs
// on integer cents; decimals only appear at the boundary.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in integer cents. It marshals as a JSON number with
// two decimal places and unmarshals from either a JSON number or a string
// ("12.34" and "12,34" both parse).
type Money struct {
	Cents int64
}

// maxCents guards against overflow when shifting by two decimal places.
const maxCents = int64(1)<<62 - 1

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Negative values are rejected; zero
// is allowed here and rejected by Validate where an operation amount is
// required.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.IsNegative() {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0, ErrInvalidAmount
	}
	v := cents.IntPart()
	if v > maxCents {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Validate rejects non-positive amounts. Operation values (purchase value,
// entry value) must pass; stored balances may legitimately be zero.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.New(m.Cents, -2).StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		m.Cents = 0
		return nil
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return fmt.Errorf("parse money %q: %w", s, err)
	}
	m.Cents = cents
	return nil
}
