package pricing

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
)

// mapDomainErrorToGRPC converts domain errors to gRPC status codes.
func mapDomainErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.NotFound, "product not found")

	case errors.Is(err, domain.ErrInvalidProductID):
		return status.Error(codes.InvalidArgument, "product_id is required")

	case errors.Is(err, domain.ErrRevisionConflict):
		return status.Error(codes.Aborted, "discount settings were changed concurrently, reload and retry")

	case errors.Is(err, domain.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "discount settings store unavailable")

	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
