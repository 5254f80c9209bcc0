package contracts

import (
	"context"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// CatalogProvider exposes the product and category data the pricing core reads.
type CatalogProvider interface {
	// GetProduct returns domain.ErrProductNotFound when the id is unknown.
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)

	// GetCategoryAncestors returns every ancestor of categoryID, nearest first.
	// Only set membership matters to callers.
	GetCategoryAncestors(ctx context.Context, categoryID string) ([]string, error)
}
