// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/shopadmin/internal/middleware"
	"github.com/olegiv/shopadmin/internal/store"
)

const (
	// DefaultSweepSchedule runs the image sweep once an hour.
	DefaultSweepSchedule = "@hourly"
	// DefaultSweepGrace protects uploads whose item row is not committed yet.
	DefaultSweepGrace = time.Hour

	loginCleanupSchedule = "@every 10m"
	loginCleanupMaxIPs   = 10000
	jobTimeout           = 5 * time.Minute
)

// Config configures the maintenance jobs.
type Config struct {
	// MenuDir is the directory holding menu item images, one subdirectory per upload.
	MenuDir       string
	SweepSchedule string
	SweepGrace    time.Duration
	// LoginProtection is pruned periodically when set.
	LoginProtection *middleware.LoginProtection
}

// Scheduler handles background jobs like sweeping orphaned images.
type Scheduler struct {
	queries *store.Queries
	cron    *cron.Cron
	logger  *slog.Logger
	cfg     Config
	now     func() time.Time
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger, cfg Config) *Scheduler {
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = DefaultSweepSchedule
	}
	if cfg.SweepGrace <= 0 {
		cfg.SweepGrace = DefaultSweepGrace
	}
	var queries *store.Queries
	if db != nil {
		queries = store.New(db)
	}
	return &Scheduler{
		queries: queries,
		cron:    cron.New(),
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if _, err := cron.ParseStandard(s.cfg.SweepSchedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.cfg.SweepSchedule, err)
	}

	if s.queries != nil && s.cfg.MenuDir != "" {
		_, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if _, err := s.SweepImages(ctx); err != nil {
				s.logger.Error("failed to sweep menu images", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	if lp := s.cfg.LoginProtection; lp != nil {
		_, err := s.cron.AddFunc(loginCleanupSchedule, func() {
			lp.Cleanup(loginCleanupMaxIPs)
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
