// Package wholesale adapts the external wholesale pricing API into a competing price
// for the pricing core. Calls go through a circuit breaker; any failure means the
// external price simply does not apply.
package wholesale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/pkg/identity"
	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
)

// APIVersion selects the wholesale API flavor. It is fixed at construction.
type APIVersion string

const (
	APIv1 APIVersion = "v1"
	APIv2 APIVersion = "v2"
)

// ErrUnexpectedStatus is returned for non-2xx answers other than 404.
var ErrUnexpectedStatus = errors.New("wholesale api returned unexpected status")

const breakerName = "wholesale"

// priceResponse is the wire shape shared by both API versions.
type priceResponse struct {
	Price  string `json:"price"`
	Active bool   `json:"active"`
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIVersion APIVersion
	Timeout    time.Duration
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// Client implements contracts.CompetingPricer over HTTP.
type Client struct {
	baseURL *url.URL
	version APIVersion
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*domain.Money]
}

// NewClient validates cfg and builds a Client. m may be nil.
func NewClient(cfg Config, m *metrics.Metrics) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid wholesale base url %q", cfg.BaseURL)
	}

	version := cfg.APIVersion
	if version == "" {
		version = APIv2
	}
	if version != APIv1 && version != APIv2 {
		return nil, fmt.Errorf("unsupported wholesale api version %q", cfg.APIVersion)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*domain.Money](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.SetCircuitBreakerState(name, int(to))
		},
	})

	return &Client{
		baseURL: base,
		version: version,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
	}, nil
}

// CompetingPrice returns the wholesale price for the requester, or nil when the product
// has no active wholesale price.
func (c *Client) CompetingPrice(ctx context.Context, requester domain.Requester, productID string) (*domain.Money, error) {
	return c.breaker.Execute(func() (*domain.Money, error) {
		return c.fetch(ctx, requester, productID)
	})
}

// State exposes the breaker state for health reporting.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) fetch(ctx context.Context, requester domain.Requester, productID string) (*domain.Money, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(requester, productID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build wholesale request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.version == APIv2 {
		req.Header.Set(identity.HeaderName, strings.Join(requester.Roles, ","))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wholesale request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var body priceResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode wholesale price: %w", err)
	}
	if !body.Active || strings.TrimSpace(body.Price) == "" {
		return nil, nil
	}

	price, err := domain.NewMoney(body.Price)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, nil
	}
	return &price, nil
}

// endpoint builds the version-specific URL. v1 passes roles as a query parameter,
// v2 as a header.
func (c *Client) endpoint(requester domain.Requester, productID string) string {
	if c.version == APIv1 {
		u := c.baseURL.JoinPath("v1", "prices", productID)
		q := u.Query()
		q.Set("roles", strings.Join(requester.Roles, ","))
		u.RawQuery = q.Encode()
		return u.String()
	}
	return c.baseURL.JoinPath("v2", "products", productID, "price").String()
}
