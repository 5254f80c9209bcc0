package contracts

import (
	"context"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// SaveOptions qualifies a ConfigStore.Save.
type SaveOptions struct {
	// ExpectedRevision, when set, must equal the stored revision or the save fails with
	// domain.ErrRevisionConflict. An empty stored configuration has revision "".
	ExpectedRevision string
	// Event is recorded in the same write where the backend supports it.
	Event *domain.SettingsSavedEvent
}

// ConfigStore persists the discount configuration.
// Save replaces the stored configuration wholesale; there are no partial updates.
type ConfigStore interface {
	// Load returns the current configuration, or an empty one if nothing was saved yet.
	Load(ctx context.Context) (*domain.DiscountConfiguration, error)

	// Save replaces the stored configuration.
	Save(ctx context.Context, cfg *domain.DiscountConfiguration, opts SaveOptions) error
}
