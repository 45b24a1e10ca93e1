// Package core holds the domain model of the finance client and the pure
// aggregation functions the dashboard views are derived from.
//
// This file contains money parsing, formatting and JSON handling. Amounts
// travel over the wire as rupee decimals (sometimes quoted), but are held
// internally as integer paise to avoid floating-point drift.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a rupee amount in paise (hundredths).
type Money struct {
	Paise int64
}

// ParseDecimalToPaise converts a decimal string to paise with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Negative values are rejected; zero is allowed (savings goals
// legitimately start at zero).
func ParseDecimalToPaise(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracPaise int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracPaise = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracPaise += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracPaise++
			}
		}
	}
	return iv*100 + fracPaise, nil
}

// Rupees returns the amount as a float64 for serialization and display.
// Use paise for arithmetic.
func (m Money) Rupees() float64 {
	return float64(m.Paise) / 100.0
}

// IsZero reports whether the amount is unset or zero.
func (m Money) IsZero() bool {
	return m.Paise == 0
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Paise: m.Paise + other.Paise}
}

// Sub returns m minus other.
func (m Money) Sub(other Money) Money {
	return Money{Paise: m.Paise - other.Paise}
}

// String formats the amount as a rupee string, e.g. "₹150.00".
func (m Money) String() string {
	paise := m.Paise
	neg := paise < 0
	if neg {
		paise = -paise
	}
	s := fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
	if neg {
		return "-" + s
	}
	return s
}

// UnmarshalJSON accepts JSON numbers and numeric strings: the backend
// stores amounts as numbers but echoes form submissions back as strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		m.Paise = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, ErrInvalidAmount)
	}
	if f < 0 {
		m.Paise = int64(f*100 - 0.5)
		return nil
	}
	m.Paise = int64(f*100 + 0.5)
	return nil
}

// MarshalJSON emits the amount as a rupee decimal number.
func (m Money) MarshalJSON() ([]byte, error) {
	if m.Paise%100 == 0 {
		return []byte(strconv.FormatInt(m.Paise/100, 10)), nil
	}
	return []byte(strconv.FormatFloat(m.Rupees(), 'f', 2, 64)), nil
}
