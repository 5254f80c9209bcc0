package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PercentPlaces is the stored precision of configured percentages.
const PercentPlaces = 2

var (
	percentMin = decimal.Zero
	percentMax = decimal.NewFromInt(100)
	hundred    = decimal.NewFromInt(100)
)

// ClampPercent limits p to [0, 100].
func ClampPercent(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(percentMin) {
		return percentMin
	}
	if p.GreaterThan(percentMax) {
		return percentMax
	}
	return p
}

// ParsePercent turns admin input into a stored percentage. Anything that does not parse
// as a number becomes 0; numbers are clamped to [0, 100] and rounded to two decimals.
func ParsePercent(raw string) decimal.Decimal {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return ClampPercent(d).Round(PercentPlaces)
}

// ParsePercentValue accepts the loosely typed values produced by JSON and protobuf
// Struct decoding.
func ParsePercentValue(v any) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case string:
		return ParsePercent(val)
	case float64:
		return ParsePercent(strconv.FormatFloat(val, 'f', -1, 64))
	case float32:
		return ParsePercent(strconv.FormatFloat(float64(val), 'f', -1, 32))
	case int:
		return ParsePercent(strconv.Itoa(val))
	case int64:
		return ParsePercent(strconv.FormatInt(val, 10))
	case decimal.Decimal:
		return ClampPercent(val).Round(PercentPlaces)
	default:
		return decimal.Zero
	}
}

// percentFactor returns 1 - p/100.
func percentFactor(p decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(p.Div(hundred))
}
