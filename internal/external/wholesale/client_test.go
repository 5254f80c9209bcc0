package wholesale

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, version APIVersion, m *metrics.Metrics) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		BaseURL:          srv.URL,
		APIVersion:       version,
		Timeout:          time.Second,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	}, m)
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "not a url"}, nil)
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "http://wholesale.local", APIVersion: "v9"}, nil)
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://wholesale.local/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, APIv2, c.version)
}

func TestClient_CompetingPrice(t *testing.T) {
	requester := domain.NewRequester("wholesale", "vip")
	ctx := context.Background()

	t.Run("v1 sends roles as query parameter", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/prices/novel", r.URL.Path)
			assert.Equal(t, "wholesale,vip", r.URL.Query().Get("roles"))
			w.Write([]byte(`{"price":"85.00","active":true}`))
		}, APIv1, nil)

		price, err := c.CompetingPrice(ctx, requester, "novel")
		require.NoError(t, err)
		require.NotNil(t, price)
		assert.True(t, price.Equals(domain.MustMoney("85")))
	})

	t.Run("v2 sends roles as header", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/products/novel/price", r.URL.Path)
			assert.Equal(t, "wholesale,vip", r.Header.Get("X-User-Roles"))
			w.Write([]byte(`{"price":"12.5","active":true}`))
		}, APIv2, nil)

		price, err := c.CompetingPrice(ctx, requester, "novel")
		require.NoError(t, err)
		assert.True(t, price.Equals(domain.MustMoney("12.50")))
	})

	t.Run("inactive or missing price means no competing price", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v2/products/gone/price" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(`{"price":"10","active":false}`))
		}, APIv2, nil)

		price, err := c.CompetingPrice(ctx, requester, "novel")
		require.NoError(t, err)
		assert.Nil(t, price)

		price, err = c.CompetingPrice(ctx, requester, "gone")
		require.NoError(t, err)
		assert.Nil(t, price)
	})

	t.Run("garbage price is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"price":"ten","active":true}`))
		}, APIv2, nil)

		_, err := c.CompetingPrice(ctx, requester, "novel")
		assert.ErrorIs(t, err, domain.ErrInvalidMoney)
	})
}

func TestClient_CircuitBreaker(t *testing.T) {
	var hits atomic.Int32
	m := metrics.New(metrics.DefaultConfig())
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, APIv2, m)

	ctx := context.Background()
	requester := domain.NewRequester("wholesale")

	for i := 0; i < 2; i++ {
		_, err := c.CompetingPrice(ctx, requester, "novel")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err := c.CompetingPrice(ctx, requester, "novel")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("wholesale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CircuitBreakerTrips.WithLabelValues("wholesale")))
}
