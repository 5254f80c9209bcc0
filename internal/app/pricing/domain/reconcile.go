package domain

import (
	"fmt"
	"strings"
)

// PricingOrder declares whether the role discount runs before or after an
// external pricing filter. It is fixed at startup.
type PricingOrder int

const (
	// OrderAfterExternal evaluates the role discount last: it sees the external price
	// and replaces it only with a lower one.
	OrderAfterExternal PricingOrder = iota
	// OrderBeforeExternal lets the external filter run last: whenever it produced a
	// price, that price is surfaced.
	OrderBeforeExternal
)

// ParsePricingOrder parses "after" or "before".
func ParsePricingOrder(s string) (PricingOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "after":
		return OrderAfterExternal, nil
	case "before":
		return OrderBeforeExternal, nil
	default:
		return OrderAfterExternal, fmt.Errorf("%w: %q", ErrInvalidPricingOrder, s)
	}
}

func (o PricingOrder) String() string {
	if o == OrderBeforeExternal {
		return "before"
	}
	return "after"
}

// PriceSource names where a surfaced price came from.
type PriceSource string

const (
	SourceRegular      PriceSource = "regular"
	SourceRoleDiscount PriceSource = "role_discount"
	SourceWholesale    PriceSource = "wholesale"
)

// Surfaced is the price shown and charged after reconciliation.
type Surfaced struct {
	Price  Money
	Source PriceSource
}

// Reconcile chooses between the role-discount price and a competing external price.
// A nil competing price means the external filter did not apply.
func Reconcile(core EffectivePrice, competing *Money, order PricingOrder) Surfaced {
	coreSurfaced := Surfaced{Price: core.FinalPrice, Source: SourceRegular}
	if core.IsDiscounted {
		coreSurfaced.Source = SourceRoleDiscount
	}

	if competing == nil || competing.IsNegative() {
		return coreSurfaced
	}

	switch order {
	case OrderBeforeExternal:
		return Surfaced{Price: *competing, Source: SourceWholesale}
	default:
		if core.FinalPrice.LessThan(*competing) {
			return coreSurfaced
		}
		return Surfaced{Price: *competing, Source: SourceWholesale}
	}
}
