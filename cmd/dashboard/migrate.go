package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeno/dashboard/config"
	"github.com/zeno/dashboard/repositories/postgres"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the projects, members and tasks schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.New(ctx)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cfg.HasDatabase() {
				return fmt.Errorf("no database configured: set DATABASE_URL or DB_HOST")
			}
			logger, err := initLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			factory, err := postgres.NewRepositoryFactory(cfg, logger)
			if err != nil {
				return err
			}
			defer factory.Close()

			applied, err := factory.Migrate(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("migration finished", zap.Bool("applied", applied))
			if applied {
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "schema already up to date")
			}
			return nil
		},
	}
}
