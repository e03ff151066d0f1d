// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/shopadmin/internal/cache"
	"github.com/olegiv/shopadmin/internal/handler"
	"github.com/olegiv/shopadmin/internal/imaging"
	"github.com/olegiv/shopadmin/internal/logging"
	"github.com/olegiv/shopadmin/internal/middleware"
	"github.com/olegiv/shopadmin/internal/render"
	"github.com/olegiv/shopadmin/internal/scheduler"
	"github.com/olegiv/shopadmin/internal/service"
	"github.com/olegiv/shopadmin/internal/session"
	"github.com/olegiv/shopadmin/internal/store"
	"github.com/olegiv/shopadmin/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin and storefront HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	// Upgrade logger to also write WARN and ERROR logs to the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, db)))
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	backend := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
		MaxSize:    cfg.CacheMaxSize,
	})
	defer func() { _ = backend.Close() }()

	images := imaging.NewProcessor(cfg.UploadsDir)
	if err := os.MkdirAll(images.MenuDir(), 0o755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	menuService := service.NewMenuService(db, images, cache.NewTreeCache(backend))

	sessionManager := session.New(db, cfg.DBDriver, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit: cfg.LoginRate,
		IPBurst:     cfg.LoginBurst,
	})

	sched := scheduler.New(db, slog.Default(), scheduler.Config{
		MenuDir:         images.MenuDir(),
		SweepSchedule:   cfg.SweepSchedule,
		SweepGrace:      cfg.SweepGrace,
		LoginProtection: loginProtection,
	})
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		DB:              db,
		Sessions:        sessionManager,
		Renderer:        renderer,
		Menus:           menuService,
		LoginProtection: loginProtection,
		CSRF:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()),
		Security:        middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		Static:          staticFS,
		UploadsDir:      images.Root(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // image uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
