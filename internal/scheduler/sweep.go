// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/olegiv/shopadmin/internal/imaging"
	"github.com/olegiv/shopadmin/internal/model"
	"github.com/olegiv/shopadmin/internal/store"
)

// SweepImages removes upload directories under the menu image directory that
// no menu item references and that are older than the grace period.
// It returns the number of entries removed.
func (s *Scheduler) SweepImages(ctx context.Context) (int, error) {
	if s.queries == nil {
		return 0, errors.New("scheduler has no database")
	}

	entries, err := os.ReadDir(s.cfg.MenuDir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading menu image dir: %w", err)
	}

	paths, err := s.queries.ListMenuItemImagePaths(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing image paths: %w", err)
	}
	referenced := referencedUploads(paths)

	cutoff := s.now().Add(-s.cfg.SweepGrace)
	var removed []string
	for _, entry := range entries {
		if referenced[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed concurrently.
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.cfg.MenuDir, entry.Name())); err != nil {
			s.logger.Warn("failed to remove orphaned image", "name", entry.Name(), "error", err)
			continue
		}
		removed = append(removed, entry.Name())
	}

	if len(removed) > 0 {
		s.logger.Info("swept orphaned menu images", "count", len(removed))
		s.logSweep(ctx, removed)
	}
	return len(removed), nil
}

// referencedUploads maps stored paths like "menu/<upload>/<file>" to the set
// of upload names still in use.
func referencedUploads(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		p = strings.TrimPrefix(path.Clean("/"+p), "/")
		parts := strings.SplitN(p, "/", 3)
		if len(parts) < 3 || parts[0] != imaging.MenuSubdir {
			continue
		}
		set[parts[1]] = true
	}
	return set
}

func (s *Scheduler) logSweep(ctx context.Context, removed []string) {
	metadata, _ := json.Marshal(map[string]any{
		"count":   len(removed),
		"removed": removed,
	})
	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryImage,
		Message:   fmt.Sprintf("Removed %d orphaned menu images", len(removed)),
		UserID:    sql.NullInt64{},
		Metadata:  string(metadata),
		CreatedAt: s.now(),
	})
	if err != nil {
		s.logger.Warn("failed to log sweep event", "error", err)
	}
}
