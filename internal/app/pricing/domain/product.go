package domain

// Product is the catalog view of a sellable item as the pricing core needs it.
// A composite (variable) product lists its variants by id; each variant is itself
// a Product with ParentID set and inherits the parent's category assignment.
type Product struct {
	ID           string
	ParentID     string
	Name         string
	RegularPrice Money
	SalePrice    *Money
	CategoryIDs  []string
	VariantIDs   []string
}

// HasPrice reports whether the product carries a meaningful regular price.
func (p *Product) HasPrice() bool {
	return p.RegularPrice.IsPositive()
}

// HasSale reports whether a positive pre-existing sale price is set.
func (p *Product) HasSale() bool {
	return p.SalePrice != nil && p.SalePrice.IsPositive()
}

// ActivePrice is the price the shop charges without any role discount:
// the sale price when present and lower, else the regular price.
func (p *Product) ActivePrice() Money {
	if p.HasSale() && p.SalePrice.LessThan(p.RegularPrice) {
		return *p.SalePrice
	}
	return p.RegularPrice
}

// IsComposite reports whether the product is priced through its variants.
func (p *Product) IsComposite() bool {
	return len(p.VariantIDs) > 0
}

// IsVariant reports whether the product belongs to a composite parent.
func (p *Product) IsVariant() bool {
	return p.ParentID != ""
}

// CategoryClosure is a product's direct categories plus all of their ancestors.
type CategoryClosure map[string]struct{}

// AncestorsFunc returns the ancestors of one category.
type AncestorsFunc func(categoryID string) ([]string, error)

// BuildCategoryClosure unions every direct category with its ancestors. A failed
// ancestor lookup keeps the direct category and is reported through onError.
func BuildCategoryClosure(direct []string, ancestorsOf AncestorsFunc, onError func(categoryID string, err error)) CategoryClosure {
	closure := make(CategoryClosure, len(direct))
	for _, categoryID := range direct {
		if categoryID == "" {
			continue
		}
		closure[categoryID] = struct{}{}
		if ancestorsOf == nil {
			continue
		}
		ancestors, err := ancestorsOf(categoryID)
		if err != nil {
			if onError != nil {
				onError(categoryID, err)
			}
			continue
		}
		for _, ancestor := range ancestors {
			if ancestor != "" {
				closure[ancestor] = struct{}{}
			}
		}
	}
	return closure
}

// NewCategoryClosure builds a closure from already-expanded ids.
func NewCategoryClosure(ids ...string) CategoryClosure {
	return BuildCategoryClosure(ids, nil, nil)
}

// Contains reports membership.
func (c CategoryClosure) Contains(categoryID string) bool {
	_, ok := c[categoryID]
	return ok
}
