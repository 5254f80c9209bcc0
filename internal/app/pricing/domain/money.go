package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a non-currency-aware monetary amount backed by an exact decimal.
// Values are immutable; every operation returns a new Money.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney is the zero amount.
var ZeroMoney = Money{amount: decimal.Zero}

// NewMoney parses a decimal string such as "2499.00".
func NewMoney(value string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoney, value)
	}
	return Money{amount: d}, nil
}

// MustMoney is NewMoney for literals known to be valid. It panics otherwise.
func MustMoney(value string) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromFloat converts a float64 amount. Use only at system boundaries.
func MoneyFromFloat(f float64) Money {
	return Money{amount: decimal.NewFromFloat(f)}
}

// MoneyFromDecimal wraps an existing decimal.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d}
}

// MoneyFromRat converts a Spanner NUMERIC value. NUMERIC carries at most 9 fractional digits.
func MoneyFromRat(r *big.Rat) Money {
	if r == nil {
		return ZeroMoney
	}
	num := decimal.NewFromBigInt(r.Num(), 0)
	denom := decimal.NewFromBigInt(r.Denom(), 0)
	return Money{amount: num.DivRound(denom, 9)}
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Rat returns the value as a big.Rat for Spanner NUMERIC columns.
func (m Money) Rat() *big.Rat {
	return m.amount.Rat()
}

// Subtract returns m - other.
func (m Money) Subtract(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MultiplyBy returns m * factor.
func (m Money) MultiplyBy(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor)}
}

// Round rounds half away from zero to the given number of decimal places,
// which for the non-negative amounts used here is standard half-up rounding.
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places)}
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// LessThan returns true if m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan returns true if m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Equals compares by value, so 10.5 equals 10.50.
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Float64 returns an approximate float64 representation (for display only, not calculations).
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// StringFixed formats the amount with exactly places decimals.
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// String returns the amount with two decimals.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) Money {
	if b.LessThan(a) {
		return b
	}
	return a
}

// MaxMoney returns the larger of a and b.
func MaxMoney(a, b Money) Money {
	if b.GreaterThan(a) {
		return b
	}
	return a
}
