package domain

import "github.com/shopspring/decimal"

// Resolution is the outcome of discount resolution for one requester and product.
type Resolution struct {
	Percent decimal.Decimal
	// Role is the enabled role that produced Percent; empty when Percent is zero.
	Role string
	// FromCategory is true when the winning value came from a category override.
	FromCategory bool
}

// IsZero reports whether no discount applies.
func (r Resolution) IsZero() bool {
	return !r.Percent.IsPositive()
}

// DiscountResolver picks the single best percentage a requester is entitled to.
//
// For every enabled role the requester holds, the best category override found in the
// product's category closure and the role's default are two independent candidates and
// the larger one wins; the result is the maximum over roles. Percentages never add up.
type DiscountResolver struct{}

// NewDiscountResolver creates a new DiscountResolver.
func NewDiscountResolver() *DiscountResolver {
	return &DiscountResolver{}
}

// Resolve returns the percentage in [0, 100] for requester on a product with the given closure.
func (dr *DiscountResolver) Resolve(requester Requester, closure CategoryClosure, cfg *DiscountConfiguration) Resolution {
	best := Resolution{Percent: decimal.Zero}
	if requester.IsAnonymous() || !cfg.HasEnabledRoles() {
		return best
	}

	for _, role := range requester.Roles {
		if !cfg.IsRoleEnabled(role) {
			continue
		}

		categoryPct := decimal.Zero
		for categoryID := range closure {
			if p := cfg.CategoryPercent(categoryID, role); p.GreaterThan(categoryPct) {
				categoryPct = p
			}
		}

		rolePct, fromCategory := cfg.DefaultPercent(role), false
		if categoryPct.GreaterThan(rolePct) {
			rolePct, fromCategory = categoryPct, true
		}

		if rolePct.GreaterThan(best.Percent) {
			best = Resolution{Percent: rolePct, Role: role, FromCategory: fromCategory}
		}
	}

	return best
}
