package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountConfiguration_Normalize(t *testing.T) {
	cfg := &DiscountConfiguration{
		EnabledRoles: map[string]bool{"wholesale": true, " educator ": false, "": true},
		RoleLabels:   map[string]string{"wholesale": " Wholesale ", "ghost": "Ghost"},
		DefaultPercentByRole: map[string]decimal.Decimal{
			"wholesale": pct("150"),
			"educator":  pct("12.345"),
			"ghost":     pct("10"),
		},
		CategoryOverrides: map[string]map[string]decimal.Decimal{
			"books": {"wholesale": pct("-3"), "ghost": pct("40")},
			"":      {"wholesale": pct("40")},
			"toys":  {"ghost": pct("40")},
		},
	}

	cfg.Normalize()

	assert.Equal(t, map[string]bool{"wholesale": true, "educator": false}, cfg.EnabledRoles)
	assert.Equal(t, map[string]string{"wholesale": "Wholesale"}, cfg.RoleLabels)

	require.Len(t, cfg.DefaultPercentByRole, 2)
	assert.True(t, cfg.DefaultPercentByRole["wholesale"].Equal(pct("100")))
	assert.True(t, cfg.DefaultPercentByRole["educator"].Equal(pct("12.35")))

	require.Len(t, cfg.CategoryOverrides, 1)
	assert.Len(t, cfg.CategoryOverrides["books"], 1)
	assert.True(t, cfg.CategoryOverrides["books"]["wholesale"].IsZero())
}

func TestDiscountConfiguration_Lookups(t *testing.T) {
	cfg := testConfig()

	assert.True(t, cfg.IsRoleEnabled("wholesale"))
	assert.False(t, cfg.IsRoleEnabled("reseller"))
	assert.False(t, cfg.IsRoleEnabled("unknown"))
	assert.True(t, cfg.HasEnabledRoles())

	assert.True(t, cfg.DefaultPercent("wholesale").Equal(pct("10")))
	assert.True(t, cfg.DefaultPercent("unknown").IsZero())
	assert.True(t, cfg.CategoryPercent("books", "educator").Equal(pct("20")))
	assert.True(t, cfg.CategoryPercent("books", "wholesale").IsZero())
	assert.True(t, cfg.CategoryPercent("garden", "educator").IsZero())

	assert.Equal(t, []string{"educator", "reseller", "wholesale"}, cfg.Roles())

	cfg.RoleLabels["wholesale"] = "Trade"
	assert.Equal(t, "Trade", cfg.RoleLabel("wholesale"))
	assert.Equal(t, "educator", cfg.RoleLabel("educator"))
}

func TestDiscountConfiguration_Clone(t *testing.T) {
	cfg := testConfig()
	cfg.Revision = "rev-1"

	clone := cfg.Clone()
	clone.CategoryOverrides["books"]["educator"] = pct("99")
	clone.EnabledRoles["wholesale"] = false

	assert.Equal(t, "rev-1", clone.Revision)
	assert.True(t, cfg.CategoryOverrides["books"]["educator"].Equal(pct("20")))
	assert.True(t, cfg.EnabledRoles["wholesale"])
}

func TestNewEmptyConfiguration(t *testing.T) {
	cfg := NewEmptyConfiguration()

	assert.False(t, cfg.HasEnabledRoles())
	assert.Empty(t, cfg.Roles())

	var nilCfg *DiscountConfiguration
	assert.False(t, nilCfg.HasEnabledRoles())
	assert.Equal(t, "wholesale", nilCfg.RoleLabel("wholesale"))
}

func TestNewSettingsSavedEvent(t *testing.T) {
	cfg := testConfig()
	cfg.Revision = "rev-2"

	event := NewSettingsSavedEvent(cfg)

	assert.Equal(t, "discount_settings.saved", event.EventType())
	assert.Equal(t, "rev-2", event.AggregateID())
	assert.Equal(t, "10.00", event.DefaultPercents["wholesale"])
	assert.Equal(t, []string{"books", "tools"}, event.OverrideCategories)
	assert.Equal(t, 2, event.OverrideCount)
}
