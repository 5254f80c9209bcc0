package repo

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/models/m_category"
	"github.com/light-bringer/rolediscount-service/internal/models/m_product"
	"github.com/light-bringer/rolediscount-service/internal/models/m_product_category"
	"github.com/light-bringer/rolediscount-service/internal/pkg/query"
)

// MaxCategoryDepth bounds the ancestor walk.
const MaxCategoryDepth = 32

// SpannerCatalog implements CatalogProvider over the products, product_categories and
// categories tables.
type SpannerCatalog struct {
	client *spanner.Client
}

// NewSpannerCatalog creates a new SpannerCatalog.
func NewSpannerCatalog(client *spanner.Client) *SpannerCatalog {
	return &SpannerCatalog{client: client}
}

// GetProduct reads a product with its direct categories and ordered variant ids.
func (c *SpannerCatalog) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.ErrInvalidProductID
	}

	txn := c.client.ReadOnlyTransaction()
	defer txn.Close()

	row, err := txn.ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	product := dataToProduct(&data)

	catStmt := query.From(m_product_category.TableName).
		Select(m_product_category.CategoryID).
		Where(query.Eq(m_product_category.ProductID, productID)).
		Build()
	err = eachRow(txn.Query(ctx, catStmt), func(r *spanner.Row) error {
		var categoryID string
		if err := r.Column(0, &categoryID); err != nil {
			return fmt.Errorf("failed to parse category id: %w", err)
		}
		product.CategoryIDs = append(product.CategoryIDs, categoryID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	variantStmt := query.From(m_product.TableName).
		Select(m_product.ProductID).
		Where(query.Eq(m_product.ParentID, productID)).
		OrderBy(m_product.Position, query.Asc).
		OrderBy(m_product.ProductID, query.Asc).
		Build()
	err = eachRow(txn.Query(ctx, variantStmt), func(r *spanner.Row) error {
		var variantID string
		if err := r.Column(0, &variantID); err != nil {
			return fmt.Errorf("failed to parse variant id: %w", err)
		}
		product.VariantIDs = append(product.VariantIDs, variantID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// GetCategoryAncestors walks parent links upward, nearest first. The walk stops at a root,
// at a dangling parent, on a cycle, or after MaxCategoryDepth levels.
func (c *SpannerCatalog) GetCategoryAncestors(ctx context.Context, categoryID string) ([]string, error) {
	txn := c.client.ReadOnlyTransaction()
	defer txn.Close()

	seen := map[string]struct{}{categoryID: {}}
	var ancestors []string

	current := categoryID
	for depth := 0; depth < MaxCategoryDepth; depth++ {
		row, err := txn.ReadRow(ctx, m_category.TableName, spanner.Key{current}, []string{m_category.ParentID})
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				if depth == 0 {
					return nil, fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, categoryID)
				}
				break
			}
			return nil, fmt.Errorf("failed to read category %s: %w", current, err)
		}

		var parent spanner.NullString
		if err := row.Column(0, &parent); err != nil {
			return nil, fmt.Errorf("failed to parse category parent: %w", err)
		}
		if !parent.Valid || parent.StringVal == "" {
			break
		}
		if _, loop := seen[parent.StringVal]; loop {
			break
		}
		seen[parent.StringVal] = struct{}{}
		ancestors = append(ancestors, parent.StringVal)
		current = parent.StringVal
	}

	return ancestors, nil
}

func dataToProduct(data *m_product.Data) *domain.Product {
	p := &domain.Product{
		ID:   data.ProductID,
		Name: data.Name,
	}
	if data.ParentID.Valid {
		p.ParentID = data.ParentID.StringVal
	}
	if data.RegularPrice.Valid {
		p.RegularPrice = domain.MoneyFromRat(&data.RegularPrice.Numeric)
	}
	if data.SalePrice.Valid {
		sale := domain.MoneyFromRat(&data.SalePrice.Numeric)
		p.SalePrice = &sale
	}
	return p
}
