// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command shopadmin runs the storefront menu administration server.
package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/olegiv/shopadmin/internal/config"
	"github.com/olegiv/shopadmin/internal/store"
	"github.com/olegiv/shopadmin/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "shopadmin",
	Short: "Storefront navigation menu administration",
	Long: `shopadmin manages the navigation menus of one or more storefronts.

Editors sign in to the admin UI to build nested menus, assign them to
storefront locations and attach images. Storefronts read the published
trees from /api/menus/{location}.

Configuration is read from SHOPADMIN_* environment variables and an
optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFile)
	},
}

func init() {
	rootCmd.Version = version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}.String()
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file (ignored when missing)")

	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// loadConfig loads config and installs the stdout logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}

// openDatabase opens and migrates the configured database.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.Open(cfg.DBDriver, cfg.DBSource())
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	slog.Info("running database migrations")
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	return db, nil
}
