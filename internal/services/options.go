// Package services wires the application's dependencies.
package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/rs/zerolog"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/contracts"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/display"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_effective_price"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_settings"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/list_events"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/repo"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/usecases/save_settings"
	"github.com/light-bringer/rolediscount-service/internal/config"
	"github.com/light-bringer/rolediscount-service/internal/external/wholesale"
	"github.com/light-bringer/rolediscount-service/internal/pkg/clock"
	"github.com/light-bringer/rolediscount-service/internal/pkg/committer"
	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
	grpcpricing "github.com/light-bringer/rolediscount-service/internal/transport/grpc/pricing"
	httppricing "github.com/light-bringer/rolediscount-service/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	Metrics       *metrics.Metrics

	// Exposed for tools such as cmd/seed that drive use cases directly.
	ConfigStore  contracts.ConfigStore
	SaveSettings *save_settings.Interactor

	PricingHandler *grpcpricing.Handler
	HTTPHandler    *httppricing.PricingHandler
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*ServiceOptions, error) {
	order, err := cfg.PricingOrder()
	if err != nil {
		return nil, err
	}

	// 1. Initialize Spanner client (the catalog always lives in Spanner)
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Create infrastructure components
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	m := metrics.New(metrics.DefaultConfig())

	// 3. Create repositories
	var store contracts.ConfigStore
	switch cfg.ConfigStore {
	case "file":
		store = repo.NewFileConfigStore(cfg.ConfigFile)
	default:
		store = repo.NewSpannerConfigStore(spannerClient, comm, repo.NewOutboxRepo())
	}
	catalog := repo.NewSpannerCatalog(spannerClient)

	// 4. Create external collaborators
	var competing contracts.CompetingPricer
	if cfg.WholesaleEnabled() {
		client, err := wholesale.NewClient(wholesale.Config{
			BaseURL:    cfg.WholesaleURL,
			APIVersion: wholesale.APIVersion(cfg.WholesaleAPIVersion),
			Timeout:    cfg.WholesaleTimeout,
		}, m)
		if err != nil {
			spannerClient.Close()
			return nil, fmt.Errorf("failed to create wholesale client: %w", err)
		}
		competing = client
	}

	// 5. Create domain services
	calc, err := domain.NewPricingCalculator(cfg.CurrencyDecimals)
	if err != nil {
		spannerClient.Close()
		return nil, err
	}
	formatter := display.NewFormatter(cfg.CurrencySymbol, calc.Decimals())

	// 6. Create command use cases (write operations)
	saveSettingsUseCase := save_settings.NewInteractor(store, clk, m)

	// 7. Create query use cases (read operations)
	getPriceQuery := get_effective_price.NewQuery(get_effective_price.Deps{
		Store:           store,
		Catalog:         catalog,
		CompetingPricer: competing,
		CompetingRoles:  cfg.WholesaleRoles,
		Order:           order,
		Calculator:      calc,
		Formatter:       formatter,
		Metrics:         m,
		Logger:          logger.With().Str("component", "pricing").Logger(),
	})
	getSettingsQuery := get_settings.NewQuery(store)
	listEventsQuery := list_events.NewQuery(repo.NewEventsReadModel(spannerClient))

	// 8. Create transport handlers
	pricingHandler := grpcpricing.NewHandler(saveSettingsUseCase, getPriceQuery, getSettingsQuery, calc.Decimals())
	httpHandler := httppricing.NewPricingHandler(saveSettingsUseCase, getPriceQuery, getSettingsQuery, listEventsQuery, calc.Decimals())

	logger.Info().
		Str("config_store", cfg.ConfigStore).
		Str("pricing_order", order.String()).
		Bool("wholesale", competing != nil).
		Msg("services wired")

	return &ServiceOptions{
		SpannerClient:  spannerClient,
		Metrics:        m,
		ConfigStore:    store,
		SaveSettings:   saveSettingsUseCase,
		PricingHandler: pricingHandler,
		HTTPHandler:    httpHandler,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
