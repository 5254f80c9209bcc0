// Command seed loads discount settings and an optional demo catalog from a YAML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/light-bringer/rolediscount-service/internal/config"
	"github.com/light-bringer/rolediscount-service/internal/pkg/committer"
	"github.com/light-bringer/rolediscount-service/internal/pkg/logging"
	"github.com/light-bringer/rolediscount-service/internal/services"
)

func main() {
	file := flag.String("file", "seeds/demo.yaml", "Seed file")
	withCatalog := flag.Bool("catalog", true, "Also upsert the demo catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, logger, *file, *withCatalog); err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, file string, withCatalog bool) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	doc, err := ParseDocument(b)
	if err != nil {
		return err
	}

	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	if withCatalog {
		plan, err := doc.CatalogPlan()
		if err != nil {
			return err
		}
		if err := committer.NewCommitter(serviceOpts.SpannerClient).Apply(ctx, plan); err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		logger.Info().Int("mutations", plan.Count()).Msg("catalog seeded")
	}

	if req := doc.SettingsRequest(); req != nil {
		resp, err := serviceOpts.SaveSettings.Execute(ctx, req)
		if err != nil {
			return err
		}
		logger.Info().
			Str("revision", resp.Revision).
			Int("roles", len(resp.Configuration.EnabledRoles)).
			Msg("discount settings saved")
	}
	return nil
}
