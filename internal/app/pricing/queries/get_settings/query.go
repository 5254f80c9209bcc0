package get_settings

import (
	"context"
	"fmt"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/contracts"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// Query handles the get settings query.
type Query struct {
	store contracts.ConfigStore
}

// NewQuery creates a new get settings query.
func NewQuery(store contracts.ConfigStore) *Query {
	return &Query{store: store}
}

// Execute returns the stored configuration. Unlike pricing, store errors surface
// to the administrator.
func (q *Query) Execute(ctx context.Context) (*domain.DiscountConfiguration, error) {
	cfg, err := q.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load discount settings: %w", err)
	}
	return cfg, nil
}
