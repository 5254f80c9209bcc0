// Package metrics holds the service's Prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all pricing service metrics.
// Record methods are safe on a nil *Metrics so callers may run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Pricing metrics
	QuotesTotal          *prometheus.CounterVec
	ConfigLoadFailures   prometheus.Counter
	CompetingPriceErrors prometheus.Counter
	VariantsSkipped      prometheus.Counter
	SettingsSaves        *prometheus.CounterVec

	// Transport metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	GRPCRequestsTotal   *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration.
type Config struct {
	Namespace string
}

// DefaultConfig returns default metrics configuration.
func DefaultConfig() *Config {
	return &Config{Namespace: "rolediscount"}
}

// New creates a Metrics instance with its own registry.
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.QuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "quotes_total",
			Help:      "Price quotes computed, by product kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	m.ConfigLoadFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "config_load_failures_total",
			Help:      "Discount configuration loads that failed and fell back to an empty configuration",
		},
	)

	m.CompetingPriceErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "competing_price_errors_total",
			Help:      "Failed lookups against the external wholesale pricer",
		},
	)

	m.VariantsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "variants_skipped_total",
			Help:      "Variants left out of a price range because they could not be loaded",
		},
	)

	m.SettingsSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "settings_saves_total",
			Help:      "Discount settings save attempts",
		},
		[]string{"status"},
	)

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	m.GRPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "grpc_requests_total",
			Help:      "Total number of gRPC requests",
		},
		[]string{"method", "code"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Times a circuit breaker opened",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		m.QuotesTotal,
		m.ConfigLoadFailures,
		m.CompetingPriceErrors,
		m.VariantsSkipped,
		m.SettingsSaves,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GRPCRequestsTotal,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordQuote counts one computed quote.
func (m *Metrics) RecordQuote(kind, outcome string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordConfigLoadFailure counts a fail-safe fallback to an empty configuration.
func (m *Metrics) RecordConfigLoadFailure() {
	if m == nil {
		return
	}
	m.ConfigLoadFailures.Inc()
}

// RecordCompetingPriceError counts a failed wholesale lookup.
func (m *Metrics) RecordCompetingPriceError() {
	if m == nil {
		return
	}
	m.CompetingPriceErrors.Inc()
}

// RecordVariantSkipped counts a variant left out of a range.
func (m *Metrics) RecordVariantSkipped() {
	if m == nil {
		return
	}
	m.VariantsSkipped.Inc()
}

// RecordSettingsSave counts a settings save attempt.
func (m *Metrics) RecordSettingsSave(success bool) {
	if m == nil {
		return
	}
	m.SettingsSaves.WithLabelValues(status(success)).Inc()
}

// RecordHTTPRequest records an HTTP request against its route pattern.
func (m *Metrics) RecordHTTPRequest(method, route string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordGRPCRequest records a unary gRPC call and its status code name.
func (m *Metrics) RecordGRPCRequest(method, code string) {
	if m == nil {
		return
	}
	m.GRPCRequestsTotal.WithLabelValues(method, code).Inc()
}

// SetCircuitBreakerState publishes a breaker state. Opening also counts a trip.
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	if state == 2 {
		m.CircuitBreakerTrips.WithLabelValues(name).Inc()
	}
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
