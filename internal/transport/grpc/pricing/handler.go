package pricing

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_effective_price"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_settings"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/usecases/save_settings"
	"github.com/light-bringer/rolediscount-service/internal/transport/payload"
)

// Handler implements PricingServiceServer.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	// Commands
	saveSettings *save_settings.Interactor

	// Queries
	getPrice    *get_effective_price.Query
	getSettings *get_settings.Query

	decimals int32
}

var _ PricingServiceServer = (*Handler)(nil)

// NewHandler creates a new gRPC pricing handler. Money is printed with decimals places.
func NewHandler(
	saveSettings *save_settings.Interactor,
	getPrice *get_effective_price.Query,
	getSettings *get_settings.Query,
	decimals int32,
) *Handler {
	return &Handler{
		saveSettings: saveSettings,
		getPrice:     getPrice,
		getSettings:  getSettings,
		decimals:     decimals,
	}
}

// GetEffectivePrice prices a product for the roles carried in request metadata.
func (h *Handler) GetEffectivePrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// 1. Validate request
	productID, err := validateGetEffectivePriceRequest(req)
	if err != nil {
		return nil, err
	}

	// 2. Execute query
	quote, err := h.getPrice.Execute(ctx, &get_effective_price.Request{ProductID: productID})
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 3. Map to response
	return h.reply(payload.FromQuote(quote, h.decimals))
}

// GetSettings returns the stored discount configuration.
func (h *Handler) GetSettings(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	cfg, err := h.getSettings.Execute(ctx)
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}
	return h.reply(payload.FromConfiguration(cfg))
}

// SaveSettings replaces the discount configuration.
func (h *Handler) SaveSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// 1. Validate request
	if err := validateSaveSettingsRequest(req); err != nil {
		return nil, err
	}

	// 2. Decode payload
	var in payload.Settings
	if err := fromStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid settings: %v", err)
	}

	// 3. Execute use case
	resp, err := h.saveSettings.Execute(ctx, in.ToSaveRequest())
	if err != nil {
		return nil, mapDomainErrorToGRPC(err)
	}

	// 4. Map to response
	return h.reply(payload.FromConfiguration(resp.Configuration))
}

func (h *Handler) reply(v interface{}) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return out, nil
}
