package get_effective_price

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/contracts"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/display"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/pkg/identity"
	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
)

// Request contains the product to price. The requester's roles come from the context.
type Request struct {
	ProductID string
}

// Quote is the request-scoped pricing outcome. It is never cached.
type Quote struct {
	ProductID string
	Composite bool

	// Percent is the resolved role discount and Role the role that produced it.
	Percent      decimal.Decimal
	Role         string
	RoleLabel    string
	FromCategory bool

	// Effective is set for simple products, Range for composite products with priced variants.
	Effective *domain.EffectivePrice
	Range     *domain.PriceRange

	// Competing is the external wholesale price when one applied.
	Competing *domain.Money
	// Surfaced is the reconciled price of a simple product.
	Surfaced *domain.Surfaced

	Display display.Display
}

// Deps groups the query's collaborators. CompetingPricer may be nil.
type Deps struct {
	Store           contracts.ConfigStore
	Catalog         contracts.CatalogProvider
	CompetingPricer contracts.CompetingPricer
	// CompetingRoles lists the roles the competing pricer serves.
	CompetingRoles []string
	Order          domain.PricingOrder
	Calculator     *domain.PricingCalculator
	Formatter      *display.Formatter
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
}

// Query handles the get effective price query.
type Query struct {
	deps     Deps
	resolver *domain.DiscountResolver
}

// NewQuery creates a new get effective price query.
func NewQuery(deps Deps) *Query {
	return &Query{
		deps:     deps,
		resolver: domain.NewDiscountResolver(),
	}
}

// Execute prices a product for the requester in ctx. Only catalog lookups of the
// requested product can fail; every other collaborator degrades to "no discount".
func (q *Query) Execute(ctx context.Context, req *Request) (*Quote, error) {
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, domain.ErrInvalidProductID
	}
	logger := q.deps.Logger.With().Str("product_id", productID).Logger()

	product, err := q.deps.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	requester := domain.NewRequester(identity.RolesFromContext(ctx)...)
	cfg := q.loadConfiguration(ctx, logger)
	resolution := q.resolve(ctx, logger, requester, product, cfg)

	quote := &Quote{
		ProductID:    product.ID,
		Composite:    product.IsComposite(),
		Percent:      resolution.Percent,
		Role:         resolution.Role,
		FromCategory: resolution.FromCategory,
	}
	if resolution.Role != "" {
		quote.RoleLabel = cfg.RoleLabel(resolution.Role)
	}

	if product.IsComposite() {
		q.priceComposite(ctx, logger, product, quote)
		return quote, nil
	}
	q.priceSimple(ctx, logger, requester, product, quote)
	return quote, nil
}

func (q *Query) loadConfiguration(ctx context.Context, logger zerolog.Logger) *domain.DiscountConfiguration {
	cfg, err := q.deps.Store.Load(ctx)
	if err != nil || cfg == nil {
		logger.Warn().Err(err).Msg("discount configuration unavailable, pricing without discounts")
		q.deps.Metrics.RecordConfigLoadFailure()
		return domain.NewEmptyConfiguration()
	}
	return cfg
}

// resolve builds the category closure and picks the percentage once per request.
// Variants are resolved against their parent's categories.
func (q *Query) resolve(
	ctx context.Context,
	logger zerolog.Logger,
	requester domain.Requester,
	product *domain.Product,
	cfg *domain.DiscountConfiguration,
) domain.Resolution {
	if requester.IsAnonymous() || !cfg.HasEnabledRoles() {
		return domain.Resolution{Percent: decimal.Zero}
	}

	categories := product.CategoryIDs
	if product.IsVariant() {
		parent, err := q.deps.Catalog.GetProduct(ctx, product.ParentID)
		if err != nil {
			logger.Warn().Err(err).Str("parent_id", product.ParentID).Msg("variant parent unavailable, using own categories")
		} else {
			categories = parent.CategoryIDs
		}
	}

	closure := domain.BuildCategoryClosure(
		categories,
		func(categoryID string) ([]string, error) {
			return q.deps.Catalog.GetCategoryAncestors(ctx, categoryID)
		},
		func(categoryID string, err error) {
			logger.Warn().Err(err).Str("category_id", categoryID).Msg("category ancestors unavailable")
		},
	)

	return q.resolver.Resolve(requester, closure, cfg)
}

func (q *Query) priceSimple(
	ctx context.Context,
	logger zerolog.Logger,
	requester domain.Requester,
	product *domain.Product,
	quote *Quote,
) {
	effective := q.deps.Calculator.ComputeFinal(quote.Percent, product)
	quote.Effective = &effective

	if !product.HasPrice() {
		q.deps.Metrics.RecordQuote("simple", "unpriced")
		return
	}

	quote.Competing = q.competingPrice(ctx, logger, requester, product.ID)
	surfaced := domain.Reconcile(effective, quote.Competing, q.deps.Order)
	quote.Surfaced = &surfaced

	percent := decimal.Zero
	if surfaced.Source == domain.SourceRoleDiscount {
		percent = quote.Percent
	}
	quote.Display = q.deps.Formatter.Format(effective.RegularPrice, surfaced.Price, percent, quote.RoleLabel)

	q.deps.Metrics.RecordQuote("simple", outcome(surfaced.Source))
}

func (q *Query) priceComposite(ctx context.Context, logger zerolog.Logger, product *domain.Product, quote *Quote) {
	variants := make([]*domain.Product, 0, len(product.VariantIDs))
	for _, variantID := range product.VariantIDs {
		variant, err := q.deps.Catalog.GetProduct(ctx, variantID)
		if err != nil {
			logger.Warn().Err(err).Str("variant_id", variantID).Msg("variant unavailable, leaving it out of the range")
			q.deps.Metrics.RecordVariantSkipped()
			continue
		}
		variants = append(variants, variant)
	}

	priceRange, ok := q.deps.Calculator.ComputeRange(quote.Percent, variants)
	if !ok {
		q.deps.Metrics.RecordQuote("composite", "unpriced")
		return
	}
	quote.Range = &priceRange
	quote.Display = q.deps.Formatter.FormatRange(priceRange, quote.RoleLabel)

	if priceRange.HasDiscount() {
		q.deps.Metrics.RecordQuote("composite", outcome(domain.SourceRoleDiscount))
	} else {
		q.deps.Metrics.RecordQuote("composite", outcome(domain.SourceRegular))
	}
}

// competingPrice asks the external pricer only for requesters it serves.
// Failures mean "no competing price".
func (q *Query) competingPrice(ctx context.Context, logger zerolog.Logger, requester domain.Requester, productID string) *domain.Money {
	if q.deps.CompetingPricer == nil || !requester.HasAnyRole(q.deps.CompetingRoles) {
		return nil
	}
	price, err := q.deps.CompetingPricer.CompetingPrice(ctx, requester, productID)
	if err != nil {
		logger.Warn().Err(err).Msg("wholesale price unavailable")
		q.deps.Metrics.RecordCompetingPriceError()
		return nil
	}
	return price
}

func outcome(source domain.PriceSource) string {
	switch source {
	case domain.SourceRoleDiscount:
		return "discounted"
	case domain.SourceWholesale:
		return "wholesale"
	default:
		return "full_price"
	}
}
