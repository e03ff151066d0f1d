// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"
)

// Config selects and sizes the cache backend.
type Config struct {
	RedisURL   string // empty selects the memory cache
	Prefix     string
	DefaultTTL time.Duration
	MaxSize    int
}

// New returns a Redis cache when RedisURL is set and reachable, and a memory
// cache otherwise. An unreachable Redis is logged, not fatal.
func New(ctx context.Context, cfg Config) Cache {
	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		opts.DefaultTTL = cfg.DefaultTTL

		rc, err := NewRedisCache(ctx, opts)
		if err == nil {
			slog.Info("using redis cache", "prefix", opts.Prefix)
			return rc
		}
		slog.Warn("redis cache unavailable, falling back to memory cache", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: time.Minute,
	})
}
