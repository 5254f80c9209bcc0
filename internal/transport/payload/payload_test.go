package payload

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/display"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_effective_price"
	"github.com/light-bringer/rolediscount-service/internal/models/m_outbox"
)

func TestFromQuote(t *testing.T) {
	competing := domain.MustMoney("85")
	q := &get_effective_price.Quote{
		ProductID: "novel",
		Percent:   decimal.RequireFromString("12.50"),
		Role:      "wholesale",
		RoleLabel: "Wholesale",
		Effective: &domain.EffectivePrice{
			RegularPrice: domain.MustMoney("100"),
			FinalPrice:   domain.MustMoney("87.5"),
			IsDiscounted: true,
		},
		Competing: &competing,
		Surfaced:  &domain.Surfaced{Price: competing, Source: domain.SourceWholesale},
		Display:   display.Display{Price: "$85.00", Original: "$100.00"},
	}

	out := FromQuote(q, 2)

	assert.Equal(t, "12.5", out.Percent)
	assert.Equal(t, "100.00", out.Effective.RegularPrice)
	assert.Equal(t, "87.50", out.Effective.FinalPrice)
	assert.Equal(t, "85.00", out.CompetingPrice)
	assert.Equal(t, "wholesale", out.Surfaced.Source)
	assert.Nil(t, out.Range)
}

func TestSettings_RoundTrip(t *testing.T) {
	cfg := domain.NewEmptyConfiguration()
	cfg.EnabledRoles["wholesale"] = true
	cfg.RoleLabels["wholesale"] = "Wholesale"
	cfg.DefaultPercentByRole["wholesale"] = decimal.RequireFromString("12.5")
	cfg.CategoryOverrides["books"] = map[string]decimal.Decimal{"wholesale": decimal.NewFromInt(20)}
	cfg.Revision = "rev-1"
	cfg.UpdatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	b, err := json.Marshal(FromConfiguration(cfg))
	require.NoError(t, err)

	var decoded Settings
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "rev-1", decoded.Revision)

	req := decoded.ToSaveRequest()
	assert.Equal(t, map[string]bool{"wholesale": true}, req.EnabledRoles)
	assert.Equal(t, map[string]string{"wholesale": "Wholesale"}, req.RoleLabels)
	assert.Equal(t, 12.5, req.DefaultPercents["wholesale"])
	assert.Equal(t, 20.0, req.CategoryOverrides["books"]["wholesale"])
}

func TestSettings_AcceptsStringPercents(t *testing.T) {
	var in Settings
	require.NoError(t, json.Unmarshal([]byte(`{
		"expected_revision": "rev-9",
		"roles": {"educator": {"enabled": true, "default_percent": "7.5%"}},
		"category_overrides": {"books": {"educator": "20"}}
	}`), &in))

	req := in.ToSaveRequest()
	assert.Equal(t, "rev-9", req.ExpectedRevision)
	assert.Equal(t, "7.5%", req.DefaultPercents["educator"])
	assert.Equal(t, "20", req.CategoryOverrides["books"]["educator"])
}

func TestFromOutbox(t *testing.T) {
	created := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	rows := []*m_outbox.Data{
		{
			EventID:     "e1",
			EventType:   "discount_settings.saved",
			AggregateID: "rev-2",
			Payload:     spanner.NullJSON{Value: map[string]interface{}{"revision": "rev-2"}, Valid: true},
			Status:      m_outbox.StatusCompleted,
			CreatedAt:   created,
			ProcessedAt: spanner.NullTime{Time: created.Add(time.Second), Valid: true},
		},
		{EventID: "e0", EventType: "discount_settings.saved", Status: m_outbox.StatusPending, CreatedAt: created},
	}

	out := FromOutbox(rows)

	require.Equal(t, 2, out.Count)
	assert.JSONEq(t, `{"revision":"rev-2"}`, string(out.Events[0].Payload))
	require.NotNil(t, out.Events[0].ProcessedAt)
	assert.Nil(t, out.Events[1].ProcessedAt)
	assert.Empty(t, out.Events[1].Payload)

	empty := FromOutbox(nil)
	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"events":[],"count":0}`, string(b))
}
