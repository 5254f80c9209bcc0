package contracts

import (
	"context"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// CompetingPricer is the narrow view of an external pricing filter (wholesale pricing)
// whose output competes with the role discount.
type CompetingPricer interface {
	// CompetingPrice returns the external final price for the requester, or nil when the
	// external filter does not apply to this requester or product.
	CompetingPrice(ctx context.Context, requester domain.Requester, productID string) (*domain.Money, error)
}
