package main

import (
	"github.com/spf13/cobra"
	"github.com/zeno/dashboard/config"
	"github.com/zeno/dashboard/internal/observability"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dashboard",
		Short: "GoldTrader Pro dashboard web tier",
		Long: `dashboard serves the signed-in trading dashboard, its auth pages
and the project API. Running it without a subcommand starts the server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newNavCmd())
	return root
}

// initLogger builds the process logger from the loaded configuration
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
}
