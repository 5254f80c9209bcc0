package save_settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/contracts"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/pkg/clock"
	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
)

type fakeStore struct {
	saved *domain.DiscountConfiguration
	opts  contracts.SaveOptions
	err   error
}

func (f *fakeStore) Load(ctx context.Context) (*domain.DiscountConfiguration, error) {
	if f.saved == nil {
		return domain.NewEmptyConfiguration(), nil
	}
	return f.saved.Clone(), nil
}

func (f *fakeStore) Save(ctx context.Context, cfg *domain.DiscountConfiguration, opts contracts.SaveOptions) error {
	if f.err != nil {
		return f.err
	}
	f.saved = cfg.Clone()
	f.opts = opts
	return nil
}

var now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("raw input is clamped, normalized and stamped", func(t *testing.T) {
		store := &fakeStore{}
		m := metrics.New(metrics.DefaultConfig())
		interactor := NewInteractor(store, clock.NewMockClock(now), m)

		resp, err := interactor.Execute(ctx, &Request{
			EnabledRoles: map[string]bool{"wholesale": true, " educator ": true, "reseller": false},
			RoleLabels:   map[string]string{"wholesale": "Wholesale", "ghost": "Ghost"},
			DefaultPercents: map[string]any{
				"wholesale": 150,
				"educator":  "7.456",
				"reseller":  "abc",
				"ghost":     40,
			},
			CategoryOverrides: map[string]map[string]any{
				"books": {"educator": 20.0, "ghost": 90},
				"":      {"wholesale": 5},
			},
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Revision)

		saved := store.saved
		require.NotNil(t, saved)
		assert.Equal(t, resp.Revision, saved.Revision)
		assert.Equal(t, now, saved.UpdatedAt)

		assert.Equal(t, map[string]bool{"wholesale": true, "educator": true, "reseller": false}, saved.EnabledRoles)
		assert.Equal(t, map[string]string{"wholesale": "Wholesale"}, saved.RoleLabels)
		assert.True(t, saved.DefaultPercentByRole["wholesale"].Equal(decimal.NewFromInt(100)))
		assert.True(t, saved.DefaultPercentByRole["educator"].Equal(decimal.RequireFromString("7.46")))
		assert.True(t, saved.DefaultPercentByRole["reseller"].IsZero())
		assert.NotContains(t, saved.DefaultPercentByRole, "ghost")
		assert.Equal(t, []string{"books"}, keys(saved.CategoryOverrides))
		assert.NotContains(t, saved.CategoryOverrides["books"], "ghost")

		require.NotNil(t, store.opts.Event)
		assert.Equal(t, resp.Revision, store.opts.Event.Revision)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.SettingsSaves.WithLabelValues("success")))
	})

	t.Run("every save gets a new revision", func(t *testing.T) {
		store := &fakeStore{}
		interactor := NewInteractor(store, clock.NewMockClock(now), nil)

		first, err := interactor.Execute(ctx, &Request{})
		require.NoError(t, err)
		second, err := interactor.Execute(ctx, &Request{ExpectedRevision: first.Revision})
		require.NoError(t, err)

		assert.NotEqual(t, first.Revision, second.Revision)
		assert.Equal(t, first.Revision, store.opts.ExpectedRevision)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		store := &fakeStore{err: domain.ErrRevisionConflict}
		m := metrics.New(metrics.DefaultConfig())
		interactor := NewInteractor(store, clock.NewMockClock(now), m)

		_, err := interactor.Execute(ctx, &Request{ExpectedRevision: "stale"})
		assert.True(t, errors.Is(err, domain.ErrRevisionConflict))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.SettingsSaves.WithLabelValues("error")))
	})
}

func TestBuildConfiguration_NilRequest(t *testing.T) {
	cfg := BuildConfiguration(nil)
	assert.Empty(t, cfg.EnabledRoles)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
