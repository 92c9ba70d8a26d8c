// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDecimal is returned when a JSON amount or percentage cannot be
// parsed as a plain decimal number.
var ErrInvalidDecimal = errors.New("invalid decimal value")

// ErrAmountOverflow is returned when money arithmetic leaves the int64 range.
var ErrAmountOverflow = errors.New("amount is out of range")

// Money is an amount of currency in minor units (cents).
//
// On the wire it is a decimal number of major units with at most two
// fractional digits, e.g. 226 or 26.5. Parsing never goes through float64.
type Money int64

// Percent is a percentage in basis points: 1300 is 13%, 750 is 7.5%.
//
// On the wire it is the percentage as a decimal number (13, 7.5).
type Percent int64

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(formatScaled(int64(m), 2)), nil
}

// UnmarshalJSON implements json.Unmarshaler. Both JSON numbers and quoted
// numbers are accepted. Digits beyond the second fractional place are rounded
// half-up.
func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := parseScaled(b, 2)
	if err != nil {
		return fmt.Errorf("money: %w", err)
	}
	*m = Money(v)
	return nil
}

// String renders the amount in major units with two fractional digits.
func (m Money) String() string {
	return formatFixed(int64(m), 2)
}

// MarshalJSON implements json.Marshaler.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(formatScaled(int64(p), 2)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Percent) UnmarshalJSON(b []byte) error {
	v, err := parseScaled(b, 2)
	if err != nil {
		return fmt.Errorf("percent: %w", err)
	}
	*p = Percent(v)
	return nil
}

// Of applies the percentage to amount, rounding half away from zero to the
// nearest cent.
//
// The amount is split into whole and remainder parts of 10000 so that the
// intermediate product stays in range for any percentage up to 100%.
func (p Percent) Of(amount Money) Money {
	whole, rest := int64(amount)/10000, int64(amount)%10000
	fraction := rest * int64(p)
	if fraction < 0 {
		fraction = -((-fraction + 5000) / 10000)
	} else {
		fraction = (fraction + 5000) / 10000
	}
	return Money(whole*int64(p) + fraction)
}

// Mul returns m multiplied by n, or ErrAmountOverflow when the product does
// not fit in int64.
func (m Money) Mul(n int64) (Money, error) {
	a := int64(m)
	if a == 0 || n == 0 {
		return 0, nil
	}
	c := a * n
	if c/n != a || (c < 0) != ((a < 0) != (n < 0)) {
		return 0, ErrAmountOverflow
	}
	return Money(c), nil
}

// Add returns m+o, or ErrAmountOverflow when the sum does not fit in int64.
func (m Money) Add(o Money) (Money, error) {
	c := m + o
	if (o > 0 && c < m) || (o < 0 && c > m) {
		return 0, ErrAmountOverflow
	}
	return c, nil
}

// formatScaled renders v/10^scale trimming trailing zeros, so 22600 becomes
// "226" and 2650 becomes "26.5".
func formatScaled(v int64, scale int) string {
	s := formatFixed(v, scale)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

func formatFixed(v int64, scale int) string {
	neg := v < 0
	if neg {
		v = -v
	}

	digits := strconv.FormatInt(v, 10)
	for len(digits) <= scale {
		digits = "0" + digits
	}

	s := digits[:len(digits)-scale] + "." + digits[len(digits)-scale:]
	if neg {
		s = "-" + s
	}
	return s
}

// parseScaled parses a decimal literal into an integer scaled by 10^scale.
func parseScaled(b []byte, scale int) (int64, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return 0, nil
	}
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = bytes.TrimSpace(b[1 : len(b)-1])
	}

	s := string(b)
	if s == "" {
		return 0, ErrInvalidDecimal
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidDecimal
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return 0, ErrInvalidDecimal
	}

	roundUp := false
	if len(fracPart) > scale {
		roundUp = fracPart[scale] >= '5'
		fracPart = fracPart[:scale]
	}
	for len(fracPart) < scale {
		fracPart += "0"
	}

	v, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidDecimal, err)
	}
	if roundUp {
		v++
	}
	if neg {
		v = -v
	}

	return v, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
