package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrencyDecimals is used when the shop does not configure a precision.
const DefaultCurrencyDecimals = 2

// EffectivePrice is the request-scoped pricing outcome for one product.
type EffectivePrice struct {
	Percent      decimal.Decimal
	RegularPrice Money
	FinalPrice   Money
	IsDiscounted bool
}

// PriceRange summarizes the prices of a composite product's variants.
type PriceRange struct {
	OriginalMin Money
	OriginalMax Money
	FinalMin    Money
	FinalMax    Money
	Percent     decimal.Decimal
	// Variants is the number of priced variants that contributed.
	Variants int
}

// HasDiscount reports whether either bound of the range moved.
func (r PriceRange) HasDiscount() bool {
	return r.FinalMin.LessThan(r.OriginalMin) || r.FinalMax.LessThan(r.OriginalMax)
}

// IsSinglePrice reports whether all variants end up at the same final price.
func (r PriceRange) IsSinglePrice() bool {
	return r.FinalMin.Equals(r.FinalMax)
}

// PricingCalculator is a domain service for price and discount calculations.
// It holds only the currency precision and is safe for concurrent use.
type PricingCalculator struct {
	decimals int32
}

// NewPricingCalculator creates a PricingCalculator rounding to decimals places.
func NewPricingCalculator(decimals int) (*PricingCalculator, error) {
	if decimals < 0 || decimals > 8 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCurrencyDecimals, decimals)
	}
	return &PricingCalculator{decimals: int32(decimals)}, nil
}

// Decimals returns the configured currency precision.
func (pc *PricingCalculator) Decimals() int32 {
	return pc.decimals
}

// CalculateDiscountAmount calculates the discount amount (not the final price).
// Formula: discountAmount = price * percent / 100
func (pc *PricingCalculator) CalculateDiscountAmount(price Money, percent decimal.Decimal) Money {
	return price.MultiplyBy(ClampPercent(percent).Div(hundred))
}

// ApplyDiscount applies a percentage to a price without rounding.
// Formula: finalPrice = price * (1 - percent / 100)
func (pc *PricingCalculator) ApplyDiscount(price Money, percent decimal.Decimal) Money {
	return price.MultiplyBy(percentFactor(ClampPercent(percent)))
}

// ComputeFinal prices a single product at the resolved percentage.
//
// Without a positive percentage the product is reported as not discounted and keeps its
// active price. Otherwise the discount is taken off the regular price and an existing lower
// sale price is kept. The result is rounded to the currency precision and never exceeds
// the regular price.
func (pc *PricingCalculator) ComputeFinal(percent decimal.Decimal, product *Product) EffectivePrice {
	regular := product.RegularPrice
	if !product.HasPrice() {
		return EffectivePrice{
			Percent:      decimal.Zero,
			RegularPrice: regular,
			FinalPrice:   product.ActivePrice(),
			IsDiscounted: false,
		}
	}

	percent = ClampPercent(percent)
	if !percent.IsPositive() {
		return EffectivePrice{
			Percent:      decimal.Zero,
			RegularPrice: regular,
			FinalPrice:   pc.capAtRegular(product.ActivePrice().Round(pc.decimals), regular),
			IsDiscounted: false,
		}
	}

	final := pc.ApplyDiscount(regular, percent)
	if product.HasSale() {
		final = MinMoney(final, *product.SalePrice)
	}
	final = pc.capAtRegular(final.Round(pc.decimals), regular)

	return EffectivePrice{
		Percent:      percent,
		RegularPrice: regular,
		FinalPrice:   final,
		IsDiscounted: final.LessThan(regular),
	}
}

func (pc *PricingCalculator) capAtRegular(price, regular Money) Money {
	if price.GreaterThan(regular) {
		return regular
	}
	return price
}

// ComputeRange prices every variant at the same percentage and aggregates the bounds.
// Variants without a positive regular price are left out. The boolean is false when
// no variant contributed.
func (pc *PricingCalculator) ComputeRange(percent decimal.Decimal, variants []*Product) (PriceRange, bool) {
	var (
		out   PriceRange
		found bool
	)
	out.Percent = ClampPercent(percent)

	for _, variant := range variants {
		if variant == nil || !variant.HasPrice() {
			continue
		}
		eff := pc.ComputeFinal(percent, variant)
		if !found {
			out.OriginalMin, out.OriginalMax = eff.RegularPrice, eff.RegularPrice
			out.FinalMin, out.FinalMax = eff.FinalPrice, eff.FinalPrice
			found = true
		} else {
			out.OriginalMin = MinMoney(out.OriginalMin, eff.RegularPrice)
			out.OriginalMax = MaxMoney(out.OriginalMax, eff.RegularPrice)
			out.FinalMin = MinMoney(out.FinalMin, eff.FinalPrice)
			out.FinalMax = MaxMoney(out.FinalMax, eff.FinalPrice)
		}
		out.Variants++
	}

	return out, found
}
