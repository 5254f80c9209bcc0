package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/rolediscount-service/internal/config"
	"github.com/light-bringer/rolediscount-service/internal/pkg/logging"
	"github.com/light-bringer/rolediscount-service/internal/services"
	grpcpricing "github.com/light-bringer/rolediscount-service/internal/transport/grpc/pricing"
	httppricing "github.com/light-bringer/rolediscount-service/internal/transport/http"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 1. Load configuration from the environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to run server")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("env", cfg.AppEnv).
		Str("spanner_database", cfg.SpannerDatabase).
		Str("grpc_port", cfg.GRPCPort).
		Str("http_port", cfg.HTTPPort).
		Msg("starting role discount service")

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. Create gRPC server with interceptors
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcpricing.ObservabilityInterceptor(logger, serviceOpts.Metrics),
		grpcpricing.IdentityInterceptor(),
	))
	grpcpricing.RegisterPricingServiceServer(grpcServer, serviceOpts.PricingHandler)

	// 4. Enable reflection (for grpcurl and debugging)
	if cfg.IsLocal() {
		reflection.Register(grpcServer)
	}

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	// 5. Create HTTP server
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httppricing.NewRouter(serviceOpts.HTTPHandler, serviceOpts.Metrics, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Serve both until one fails or a signal arrives
	errCh := make(chan error, 2)
	go func() {
		logger.Info().Str("addr", lis.Addr().String()).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down gracefully")
	case serveErr = <-errCh:
		logger.Error().Err(serveErr).Msg("server failed, shutting down")
	}

	// 7. Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	grpcServer.GracefulStop()

	return serveErr
}
