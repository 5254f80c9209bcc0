package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/usecases/save_settings"
)

func TestDemoSeed(t *testing.T) {
	b, err := os.ReadFile("../../seeds/demo.yaml")
	require.NoError(t, err)

	doc, err := ParseDocument(b)
	require.NoError(t, err)

	t.Run("settings become a save request", func(t *testing.T) {
		req := doc.SettingsRequest()
		require.NotNil(t, req)

		assert.True(t, req.EnabledRoles["educator"])
		assert.False(t, req.EnabledRoles["staff"])
		assert.Equal(t, "Wholesale", req.RoleLabels["wholesale_customer"])

		cfg := save_settings.BuildConfiguration(req)
		cfg.Normalize()
		assert.Equal(t, "5", cfg.DefaultPercent("educator").String())
		assert.Equal(t, "25", cfg.CategoryPercent("books", "educator").String())
		assert.Equal(t, "8.5", cfg.CategoryPercent("electronics", "wholesale_customer").String())
	})

	t.Run("catalog becomes upserts", func(t *testing.T) {
		plan, err := doc.CatalogPlan()
		require.NoError(t, err)
		// 4 categories, 3 products, 2 variants, 3 category links
		assert.Equal(t, 12, plan.Count())
	})
}

func TestCatalogPlan_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"category without id", "catalog:\n  categories:\n    - name: X\n"},
		{"product without id", "catalog:\n  products:\n    - name: X\n"},
		{"variant without id", "catalog:\n  products:\n    - id: p\n      variants:\n        - name: V\n"},
		{"bad price", "catalog:\n  products:\n    - id: p\n      regular_price: abc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = doc.CatalogPlan()
			assert.Error(t, err)
		})
	}
}

func TestSettingsRequest_Absent(t *testing.T) {
	doc, err := ParseDocument([]byte("catalog: {}\n"))
	require.NoError(t, err)
	assert.Nil(t, doc.SettingsRequest())
}
