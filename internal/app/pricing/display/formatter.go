// Package display renders computed prices as storefront strings.
package display

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// Display is the rendered form of one price or price range.
type Display struct {
	// Price is the markup shown to the visitor, including a struck original when discounted.
	Price string
	// Original is the plain undiscounted price or range.
	Original string
	// Annotation is a short "-20% Wholesale" style note, empty when not discounted.
	Annotation string
}

// Formatter renders prices with a currency symbol and precision.
type Formatter struct {
	symbol   string
	decimals int32
}

// NewFormatter creates a Formatter.
func NewFormatter(symbol string, decimals int32) *Formatter {
	return &Formatter{symbol: symbol, decimals: decimals}
}

// Format renders a single product price.
func (f *Formatter) Format(regular, final domain.Money, percent decimal.Decimal, roleLabel string) Display {
	original := f.amount(regular)
	if !final.LessThan(regular) {
		return Display{Price: original, Original: original}
	}
	return Display{
		Price:      fmt.Sprintf("<del>%s</del> <ins>%s</ins>", original, f.amount(final)),
		Original:   original,
		Annotation: Annotation(percent, roleLabel),
	}
}

// FormatRange renders a composite product's price range.
func (f *Formatter) FormatRange(r domain.PriceRange, roleLabel string) Display {
	original := f.span(r.OriginalMin, r.OriginalMax)
	if !r.HasDiscount() {
		return Display{Price: original, Original: original}
	}
	return Display{
		Price:      fmt.Sprintf("<del>%s</del> <ins>%s</ins>", original, f.span(r.FinalMin, r.FinalMax)),
		Original:   original,
		Annotation: Annotation(r.Percent, roleLabel),
	}
}

// Annotation returns "-X% label", or "" when percent is not positive.
func Annotation(percent decimal.Decimal, roleLabel string) string {
	if !percent.IsPositive() {
		return ""
	}
	note := "-" + percent.String() + "%"
	if label := strings.TrimSpace(roleLabel); label != "" {
		note += " " + label
	}
	return note
}

func (f *Formatter) span(low, high domain.Money) string {
	if low.Equals(high) {
		return f.amount(low)
	}
	return f.amount(low) + " – " + f.amount(high)
}

func (f *Formatter) amount(m domain.Money) string {
	return f.symbol + m.StringFixed(f.decimals)
}
