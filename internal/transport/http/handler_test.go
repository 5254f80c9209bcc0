package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/display"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_effective_price"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_settings"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/repo"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/usecases/save_settings"
	"github.com/light-bringer/rolediscount-service/internal/pkg/clock"
	"github.com/light-bringer/rolediscount-service/internal/pkg/identity"
	"github.com/light-bringer/rolediscount-service/internal/models/m_outbox"
	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
	"github.com/light-bringer/rolediscount-service/internal/transport/payload"
)

// --- Mock Catalog ---

type mockCatalog struct {
	products map[string]*domain.Product
	parents  map[string]string
}

func (m *mockCatalog) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	return p, nil
}

func (m *mockCatalog) GetCategoryAncestors(_ context.Context, categoryID string) ([]string, error) {
	var out []string
	for parent, ok := m.parents[categoryID]; ok; parent, ok = m.parents[parent] {
		out = append(out, parent)
	}
	return out, nil
}

// --- Mock Events Read Model ---

type mockEvents struct {
	got    *list_events.Request
	events []*m_outbox.Data
}

func (m *mockEvents) ListEvents(_ context.Context, req *list_events.Request) ([]*m_outbox.Data, error) {
	m.got = req
	return m.events, nil
}

// --- Helpers ---

func newTestRouter(t *testing.T) (http.Handler, *metrics.Metrics) {
	t.Helper()
	router, m, _ := newTestRouterWithEvents(t)
	return router, m
}

func newTestRouterWithEvents(t *testing.T) (http.Handler, *metrics.Metrics, *mockEvents) {
	t.Helper()

	store := repo.NewFileConfigStore(filepath.Join(t.TempDir(), "discounts.yaml"))
	catalog := &mockCatalog{
		parents: map[string]string{"paperbacks": "books"},
		products: map[string]*domain.Product{
			"atlas": {ID: "atlas", Name: "Atlas", RegularPrice: domain.MustMoney("80"), CategoryIDs: []string{"paperbacks"}},
			"shirt": {ID: "shirt", Name: "Shirt", VariantIDs: []string{"shirt-s", "shirt-l"}},
			"shirt-s": {ID: "shirt-s", ParentID: "shirt", RegularPrice: domain.MustMoney("10")},
			"shirt-l": {ID: "shirt-l", ParentID: "shirt", RegularPrice: domain.MustMoney("30")},
		},
	}
	calc, err := domain.NewPricingCalculator(2)
	require.NoError(t, err)
	m := metrics.New(metrics.DefaultConfig())
	events := &mockEvents{events: []*m_outbox.Data{
		{EventID: "e1", EventType: "discount_settings.saved", AggregateID: "rev-1", Status: m_outbox.StatusPending},
	}}

	h := NewPricingHandler(
		save_settings.NewInteractor(store, clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)), m),
		get_effective_price.NewQuery(get_effective_price.Deps{
			Store:      store,
			Catalog:    catalog,
			Calculator: calc,
			Formatter:  display.NewFormatter("$", 2),
			Metrics:    m,
			Logger:     zerolog.Nop(),
		}),
		get_settings.NewQuery(store),
		list_events.NewQuery(events),
		2,
	)
	return NewRouter(h, m, zerolog.Nop()), m, events
}

func do(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const educatorSettings = `{
	"roles": {
		"educator": {"enabled": true, "label": "Educator", "default_percent": 10},
		"retired": {"enabled": false, "default_percent": 50}
	},
	"category_overrides": {"books": {"educator": "30%"}}
}`

// --- Tests ---

func TestHandleSaveSettings_ThenGetPrice(t *testing.T) {
	router, m := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/v1/settings", educatorSettings, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var saved payload.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.NotEmpty(t, saved.Revision)
	assert.True(t, saved.Roles["educator"].Enabled)

	t.Run("category ancestor override applies", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/products/atlas/price", "", map[string]string{identity.HeaderName: "customer, educator"})
		require.Equal(t, http.StatusOK, rec.Code)

		var q payload.Quote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
		assert.Equal(t, "30", q.Percent)
		assert.Equal(t, "educator", q.Role)
		assert.True(t, q.FromCategory)
		assert.Equal(t, "56.00", q.Effective.FinalPrice)
		assert.Equal(t, "<del>$80.00</del> <ins>$56.00</ins>", q.Display.Price)
	})

	t.Run("disabled role is ignored", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/products/atlas/price", "", map[string]string{identity.HeaderName: "retired"})
		require.Equal(t, http.StatusOK, rec.Code)

		var q payload.Quote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
		assert.Equal(t, "0", q.Percent)
		assert.Equal(t, "80.00", q.Effective.FinalPrice)
		assert.False(t, q.Effective.IsDiscounted)
	})

	t.Run("composite product returns a range", func(t *testing.T) {
		rec := do(t, router, http.MethodGet, "/api/v1/products/shirt/price", "", map[string]string{identity.HeaderName: "educator"})
		require.Equal(t, http.StatusOK, rec.Code)

		var q payload.Quote
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
		require.NotNil(t, q.Range)
		assert.True(t, q.Composite)
		assert.Equal(t, "9.00", q.Range.FinalMin)
		assert.Equal(t, "27.00", q.Range.FinalMax)
		assert.Equal(t, 2, q.Range.Variants)
	})

	assert.Equal(t, float64(3), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/products/{productID}/price", "200")))
}

func TestHandleSaveSettings_RevisionConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/v1/settings", educatorSettings, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var first payload.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	body := fmt.Sprintf(`{"expected_revision": %q, "roles": {}, "category_overrides": {}}`, first.Revision)
	rec = do(t, router, http.MethodPut, "/api/v1/settings", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/v1/settings", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var errResp APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "conflict", errResp.Error.Code)
}

func TestHandleGetSettings_Empty(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/v1/settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var s payload.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Empty(t, s.Roles)
	assert.Empty(t, s.Revision)
}

func TestHandlers_Errors(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown product", http.MethodGet, "/api/v1/products/ghost/price", "", http.StatusNotFound, "not_found"},
		{"malformed settings", http.MethodPut, "/api/v1/settings", `{"roles": [`, http.StatusBadRequest, "invalid_argument"},
		{"unknown field", http.MethodPut, "/api/v1/settings", `{"rolez": {}}`, http.StatusBadRequest, "invalid_argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.status, rec.Code)

			var errResp APIErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.code, errResp.Error.Code)
			assert.NotEmpty(t, errResp.Error.RequestID)
		})
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(t, router, http.MethodGet, "/healthz", "", nil)
	rec = do(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rolediscount_http_requests_total")
}

func TestHandleListEvents(t *testing.T) {
	router, _, events := newTestRouterWithEvents(t)

	rec := do(t, router, http.MethodGet, "/api/v1/settings/events?status=pending&limit=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp payload.ListEventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "rev-1", resp.Events[0].AggregateID)
	assert.Equal(t, "pending", events.got.Status)
	assert.Equal(t, 5, events.got.Limit)

	rec = do(t, router, http.MethodGet, "/api/v1/settings/events?limit=many", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
