package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/careerkitsune/careerkitsune-ai/internal/logger"
	"github.com/careerkitsune/careerkitsune-ai/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the sqlite or postgres schema and demo data",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables if they do not exist",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withMigrator(func(ctx context.Context, m store.Migrator, _ *zap.Logger) error {
			return m.Migrate(ctx)
		})
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo fixture, or the one given with --fixture",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cmd.Flag("fixture").Value.String()
		return withMigrator(func(ctx context.Context, m store.Migrator, logger *zap.Logger) error {
			fixture, err := store.DemoFixture()
			if path != "" {
				fixture, err = store.LoadFixture(path)
			}
			if err != nil {
				return err
			}
			if err := m.Migrate(ctx); err != nil {
				return err
			}
			if err := m.Seed(ctx, fixture); err != nil {
				return err
			}
			logger.Info("fixture loaded",
				zap.Int("companies", len(fixture.Companies)),
				zap.Int("jobs", len(fixture.Jobs)),
				zap.Int("candidates", len(fixture.Candidates)),
			)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbMigrateCmd, dbSeedCmd)

	dbSeedCmd.Flags().String("fixture", "", "yaml fixture file (default is the built-in demo data)")
}

func withMigrator(fn func(context.Context, store.Migrator, *zap.Logger) error) error {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	repo, err := openRepository(ctx, config, logger)
	if err != nil {
		logger.Fatal("opening the backend", zap.Error(err), zap.String("backend", config.Backend))
	}
	defer repo.Close()

	m, ok := repo.(store.Migrator)
	if !ok {
		return fmt.Errorf("the %s backend manages its own schema", config.Backend)
	}
	return fn(ctx, m, logger)
}
