// Command migrate creates the Spanner instance and database when missing
// and applies every migrations/*.sql file in name order.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/rolediscount-service/internal/pkg/logging"
)

type options struct {
	projectID  string
	instanceID string
	databaseID string
	migrateDir string
}

func (o options) instanceName() string {
	return fmt.Sprintf("projects/%s/instances/%s", o.projectID, o.instanceID)
}

func (o options) databaseName() string {
	return fmt.Sprintf("%s/databases/%s", o.instanceName(), o.databaseID)
}

func main() {
	var opts options
	flag.StringVar(&opts.projectID, "project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	flag.StringVar(&opts.instanceID, "instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	flag.StringVar(&opts.databaseID, "database", getEnvOrDefault("SPANNER_DATABASE_ID", "rolediscount-db"), "Spanner database ID")
	flag.StringVar(&opts.migrateDir, "migrations", "migrations", "Directory containing migration SQL files")
	flag.Parse()

	logger := logging.New(getEnvOrDefault("LOG_LEVEL", "info"), getEnvOrDefault("LOG_FORMAT", "console"))

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		logger.Info().Str("emulator", host).Msg("using Spanner emulator")
	}

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	logger.Info().Msg("migrations completed")
}

func run(ctx context.Context, opts options, logger zerolog.Logger) error {
	if err := ensureInstance(ctx, opts, logger); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}
	if err := ensureDatabase(ctx, opts, logger); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	if err := applyMigrations(ctx, opts, logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func ensureInstance(ctx context.Context, opts options, logger zerolog.Logger) error {
	admin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: opts.instanceName()})
	if err == nil {
		logger.Debug().Str("instance", opts.instanceID).Msg("instance exists")
		return nil
	}
	if status.Code(err) != codes.NotFound {
		logger.Warn().Err(err).Msg("unexpected error checking instance, continuing")
		return nil
	}

	logger.Info().Str("instance", opts.instanceID).Msg("creating instance")
	op, err := admin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     "projects/" + opts.projectID,
		InstanceId: opts.instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", opts.projectID),
			DisplayName: "Role Discount Development",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}
	// The emulator may finish before Wait is called.
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		logger.Warn().Err(err).Msg("instance creation did not report success")
	}
	return nil
}

func ensureDatabase(ctx context.Context, opts options, logger zerolog.Logger) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: opts.databaseName()})
	switch {
	case err == nil:
		logger.Debug().Str("database", opts.databaseID).Msg("database exists")
		return nil
	case status.Code(err) != codes.NotFound:
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			logger.Warn().Err(err).Msg("proceeding in emulator mode")
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	logger.Info().Str("database", opts.databaseID).Msg("creating database")
	op, err := admin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          opts.instanceName(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", opts.databaseID),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	return nil
}

func applyMigrations(ctx context.Context, opts options, logger zerolog.Logger) error {
	files, err := migrationFiles(opts.migrateDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn().Str("dir", opts.migrateDir).Msg("no migration files found")
		return nil
	}

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	for _, file := range files {
		name := filepath.Base(file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   opts.databaseName(),
			Statements: splitDDLStatements(string(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		logger.Info().Str("migration", name).Msg("applied")
	}
	return nil
}

// migrationFiles lists dir/*.sql sorted by name.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migration files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// splitDDLStatements drops full-line "--" comments and splits on semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
