package save_settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/contracts"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/pkg/clock"
	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
)

// Request carries the raw administrator input. Percent values may be numbers or
// strings such as "12.5" or "12.5%"; anything unparseable counts as 0.
type Request struct {
	EnabledRoles      map[string]bool
	RoleLabels        map[string]string
	DefaultPercents   map[string]any
	CategoryOverrides map[string]map[string]any
	// ExpectedRevision guards against overwriting a concurrent save. Empty skips the check.
	ExpectedRevision string
}

// Response reports what was stored.
type Response struct {
	Revision      string
	Configuration *domain.DiscountConfiguration
}

// Interactor handles the save settings use case.
type Interactor struct {
	store   contracts.ConfigStore
	clock   clock.Clock
	metrics *metrics.Metrics
}

// NewInteractor creates a new save settings interactor.
func NewInteractor(store contracts.ConfigStore, clock clock.Clock, m *metrics.Metrics) *Interactor {
	return &Interactor{
		store:   store,
		clock:   clock,
		metrics: m,
	}
}

// Execute normalizes the request into a configuration and replaces the stored one.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Parse raw values
	cfg := BuildConfiguration(req)

	// 2. Enforce invariants
	cfg.Normalize()

	// 3. Stamp revision
	cfg.Revision = uuid.NewString()
	cfg.UpdatedAt = i.clock.Now()

	// 4. Replace stored configuration with the audit event
	err := i.store.Save(ctx, cfg, contracts.SaveOptions{
		ExpectedRevision: strings.TrimSpace(req.ExpectedRevision),
		Event:            domain.NewSettingsSavedEvent(cfg),
	})
	i.metrics.RecordSettingsSave(err == nil)
	if err != nil {
		return nil, fmt.Errorf("failed to save discount settings: %w", err)
	}

	return &Response{Revision: cfg.Revision, Configuration: cfg}, nil
}

// BuildConfiguration converts raw input into an unnormalized configuration.
func BuildConfiguration(req *Request) *domain.DiscountConfiguration {
	cfg := domain.NewEmptyConfiguration()
	if req == nil {
		return cfg
	}
	for role, on := range req.EnabledRoles {
		cfg.EnabledRoles[role] = on
	}
	for role, label := range req.RoleLabels {
		cfg.RoleLabels[role] = label
	}
	for role, raw := range req.DefaultPercents {
		cfg.DefaultPercentByRole[role] = domain.ParsePercentValue(raw)
	}
	for categoryID, byRole := range req.CategoryOverrides {
		parsed := make(map[string]decimal.Decimal, len(byRole))
		for role, raw := range byRole {
			parsed[role] = domain.ParsePercentValue(raw)
		}
		cfg.CategoryOverrides[categoryID] = parsed
	}
	return cfg
}
