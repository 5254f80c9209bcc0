package domain

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money creation", func(t *testing.T) {
		m, err := NewMoney(" 2499.00 ")
		require.NoError(t, err)
		assert.Equal(t, "2499.00", m.String())
	})

	t.Run("invalid amount returns error", func(t *testing.T) {
		_, err := NewMoney("12,50")
		assert.ErrorIs(t, err, ErrInvalidMoney)
	})

	t.Run("negative amount allowed", func(t *testing.T) {
		m, err := NewMoney("-1")
		require.NoError(t, err)
		assert.True(t, m.IsNegative())
	})

	t.Run("MustMoney panics on garbage", func(t *testing.T) {
		assert.Panics(t, func() { MustMoney("abc") })
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	m := MustMoney("100")

	assert.True(t, m.Subtract(MustMoney("30")).Equals(MustMoney("70")))
	assert.True(t, m.MultiplyBy(decimal.RequireFromString("0.75")).Equals(MustMoney("75")))
	assert.True(t, MustMoney("10.5").Equals(MustMoney("10.50")))
}

func TestMoney_Round(t *testing.T) {
	assert.Equal(t, "2.35", MustMoney("2.345").Round(2).String())
	assert.Equal(t, "2.34", MustMoney("2.3449").Round(2).String())
	assert.Equal(t, "3", MustMoney("2.5").Round(0).Decimal().String())
}

func TestMoney_Comparisons(t *testing.T) {
	low, high := MustMoney("1"), MustMoney("2")

	assert.True(t, low.LessThan(high))
	assert.True(t, high.GreaterThan(low))
	assert.True(t, MinMoney(high, low).Equals(low))
	assert.True(t, MaxMoney(low, high).Equals(high))
	assert.True(t, ZeroMoney.IsZero())
	assert.False(t, ZeroMoney.IsPositive())
}

func TestMoney_RatRoundTrip(t *testing.T) {
	m := MustMoney("2186.625")

	back := MoneyFromRat(m.Rat())
	assert.True(t, back.Equals(m))

	assert.True(t, MoneyFromRat(nil).IsZero())
	assert.True(t, MoneyFromRat(big.NewRat(1, 3)).Equals(MustMoney("0.333333333")))
}

func TestMoney_Float64(t *testing.T) {
	assert.Equal(t, 12.5, MustMoney("12.50").Float64())
	assert.Equal(t, 12.5, MoneyFromFloat(12.5).Float64())
	assert.Equal(t, "12.500", MustMoney("12.5").StringFixed(3))
}
