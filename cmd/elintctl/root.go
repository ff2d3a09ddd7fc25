package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/logger"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "1.0.0"

// runtime is what every subcommand shares once the root has connected
type runtime struct {
	cfg *config.Config
	log *zap.Logger
	db  *persistence.Database
}

var app runtime

// Commands annotated with this manage their own connection, or need none
const annotationNoDatabase = "elintctl/no-database"

var rootCmd = &cobra.Command{
	Use:   "elintctl",
	Short: "Maintenance commands for the Elint ledger",
	Long: `elintctl works directly on the Elint database using the same services
as the API server. Configuration is read the same way as the server:
environment (ELINT_*), .env, then config.toml.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: connect,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.db != nil {
			if err := app.db.Close(); err != nil {
				app.log.Warn("Error closing database", zap.Error(err))
			}
		}
		if app.log != nil {
			_ = logger.Sync(app.log)
		}
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); defaults to the configured level")
}

func connect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	level := cfg.Log.Level
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		level = flag
	}

	log, err := logger.New(&logger.Config{
		Level:      level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	app = runtime{cfg: cfg, log: log}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoDatabase] == "true" {
			return nil
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel("warn"), 0)
	db, err := persistence.Open(cmd.Context(), &cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	app.db = db
	return nil
}
