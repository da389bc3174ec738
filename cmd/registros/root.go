package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/registros/internal/config"
	"github.com/JonMunkholm/registros/internal/core"
	"github.com/JonMunkholm/registros/internal/database"
	"github.com/JonMunkholm/registros/internal/logging"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "registros",
		Short: "Manage student enrollment records",
		Long: `registros imports enrollment records from spreadsheets into Postgres,
exports them back to Excel and shows the import history.

Commands that touch the database read DATABASE_URL from the environment
or from a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Logs go to stderr so command output can be piped.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newMigrateCmd(),
		newImportCmd(),
		newCheckCmd(),
		newExportCmd(),
		newTemplateCmd(),
		newHistoryCmd(),
	)
	return root
}

// loadConfig reads .env when present and loads the configuration.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return config.Load()
}

// connect opens the database pool described by the environment.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("connected to database", "name", database.Name(cfg.Database.URL))
	return cfg, pool, nil
}

// openService connects and builds a Service. cleanup releases the pool.
func openService(ctx context.Context) (svc *core.Service, cleanup func(), err error) {
	cfg, pool, err := connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	svc, err = core.NewService(core.NewPostgresStore(pool), cfg)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}
	return svc, pool.Close, nil
}
