package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a currency amount held as integer cents. Comparing in cents
// avoids floating-point drift when differencing amounts from independently
// produced extracts. Valid is false for blank or unparseable cells, which
// lets the blank-as-zero policy distinguish "absent" from an actual 0.00.
type Money struct {
	Cents int64
	Valid bool
}

// MoneyFromFloat converts a float amount to cents via round(value*100).
func MoneyFromFloat(v float64) Money {
	return Money{Cents: int64(math.Round(v * 100)), Valid: true}
}

// MoneyFromCents builds a valid Money from integer cents.
func MoneyFromCents(cents int64) Money {
	return Money{Cents: cents, Valid: true}
}

// ParseMoney parses a money cell. Currency symbols, thousands separators,
// and surrounding whitespace are tolerated. Blank or unparseable cells
// return an invalid Money rather than an error: a single bad cell must not
// abort reconciliation of thousands of good rows.
func ParseMoney(s string) Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == '$' || r == ',' || r == ' ':
			// stripped
		default:
			return Money{}
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return Money{}
	}
	if negative {
		v = -v
	}
	return MoneyFromFloat(v)
}

// Float returns the amount in currency units.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100
}

// Or returns m, or the fallback when m is invalid.
func (m Money) Or(fallback Money) Money {
	if m.Valid {
		return m
	}
	return fallback
}

// String formats the amount with two decimals; invalid amounts format as "".
func (m Money) String() string {
	if !m.Valid {
		return ""
	}
	sign := ""
	cents := m.Cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// EqualWithin reports whether two amounts differ by at most tolerance cents.
func (m Money) EqualWithin(other Money, toleranceCents int64) bool {
	d := m.Cents - other.Cents
	if d < 0 {
		d = -d
	}
	return d <= toleranceCents
}
