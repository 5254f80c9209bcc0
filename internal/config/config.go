// Package config loads the service configuration from the environment.
//
// Loading order: an optional .env file (never overriding real environment variables),
// envconfig defaults and parsing, then struct validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// Config is the complete service configuration.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json console"`

	GRPCPort string `envconfig:"GRPC_PORT" default:"9090" validate:"required,numeric"`
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080" validate:"required,numeric"`

	SpannerDatabase string `envconfig:"SPANNER_DATABASE" default:"projects/test-project/instances/dev-instance/databases/rolediscount-db"`

	// ConfigStore selects where discount settings live: "spanner" or "file".
	ConfigStore string `envconfig:"CONFIG_STORE" default:"spanner" validate:"oneof=spanner file"`
	ConfigFile  string `envconfig:"CONFIG_FILE" default:"discounts.yaml" validate:"required_if=ConfigStore file"`

	CurrencyDecimals int    `envconfig:"CURRENCY_DECIMALS" default:"2" validate:"min=0,max=8"`
	CurrencySymbol   string `envconfig:"CURRENCY_SYMBOL" default:"$"`
	// ExternalPricingOrder is "after" when the role discount runs after the wholesale filter.
	ExternalPricingOrder string `envconfig:"EXTERNAL_PRICING_ORDER" default:"after" validate:"oneof=before after"`

	WholesaleURL        string        `envconfig:"WHOLESALE_URL" validate:"omitempty,url"`
	WholesaleAPIVersion string        `envconfig:"WHOLESALE_API_VERSION" default:"v2" validate:"oneof=v1 v2"`
	WholesaleRoles      []string      `envconfig:"WHOLESALE_ROLES" default:"wholesale_customer"`
	WholesaleTimeout    time.Duration `envconfig:"WHOLESALE_TIMEOUT" default:"2s" validate:"gt=0"`
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrParsing indicates an environment value could not be parsed into its field.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
)

// ConfigError is returned by Load.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	cfg.WholesaleRoles = trimAll(cfg.WholesaleRoles)
	return &cfg, nil
}

// PricingOrder returns the configured reconciliation order.
func (c *Config) PricingOrder() (domain.PricingOrder, error) {
	return domain.ParsePricingOrder(c.ExternalPricingOrder)
}

// WholesaleEnabled reports whether a wholesale pricing API is configured.
func (c *Config) WholesaleEnabled() bool {
	return c.WholesaleURL != ""
}

// IsLocal reports whether the service runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.AppEnv == "local"
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
