package pricing

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/rolediscount-service/internal/pkg/identity"
	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
)

// IdentityInterceptor copies the requester's roles from x-user-roles metadata
// into the context. A call without the key is anonymous.
func IdentityInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			ctx = identity.WithRoles(ctx, identity.ParseRoles(md.Get(identity.MetadataKey)...))
		}
		return handler(ctx, req)
	}
}

// ObservabilityInterceptor logs each call and records its status code.
func ObservabilityInterceptor(logger zerolog.Logger, m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		m.RecordGRPCRequest(info.FullMethod, code.String())

		event := logger.Debug()
		if err != nil {
			event = logger.Warn().Err(err)
		}
		event.
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("grpc request")

		return resp, err
	}
}
