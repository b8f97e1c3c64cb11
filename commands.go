package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/icco/podcast/handlers"
	"github.com/icco/podcast/lib/config"
	"github.com/icco/podcast/lib/db"
	"github.com/icco/podcast/lib/store"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// commandContext carries what every subcommand needs once the environment
// has been read.
type commandContext struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCommand() *cobra.Command {
	cc := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "podcast",
		Short:         "Podcast episodes, guests and appearances over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cc.cfg = cfg
			cc.logger = newLogger(cfg.LogLevel())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cc)
		},
	}

	rootCmd.AddCommand(newServeCommand(cc))
	rootCmd.AddCommand(newMigrateCommand(cc))
	rootCmd.AddCommand(newSeedCommand(cc))
	rootCmd.AddCommand(newInspectCommand(cc))

	return rootCmd
}

func newServeCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cc)
		},
	}
}

func newMigrateCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), cc, func(*gorm.DB) error {
				cc.logger.Info("Migrations complete")
				return nil
			})
		},
	}
}

func newSeedCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the demo episodes, guests and appearances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), cc, func(gormDB *gorm.DB) error {
				return store.New(gormDB, cc.logger).Seed(cmd.Context())
			})
		},
	}
}

// withDatabase opens and migrates the configured database, runs fn, and
// closes the connection.
func withDatabase(ctx context.Context, cc *commandContext, fn func(*gorm.DB) error) error {
	gormDB, err := db.Open(cc.cfg, cc.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			cc.logger.Warn("Failed to close database", slog.Any("error", err))
		}
	}()

	if err := db.RunMigrations(ctx, gormDB, cc.logger); err != nil {
		return err
	}
	return fn(gormDB)
}

func runServe(ctx context.Context, cc *commandContext) error {
	return withDatabase(ctx, cc, func(gormDB *gorm.DB) error {
		srv := &http.Server{
			Addr:              cc.cfg.Addr(),
			Handler:           handlers.NewRouter(store.New(gormDB, cc.logger)),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			cc.logger.Info("Starting server", slog.String("addr", srv.Addr), slog.Bool("debug", cc.cfg.Debug))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		cc.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cc.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})
}
