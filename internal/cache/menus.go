// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// TreeCache holds serialized menu trees keyed by store and location.
type TreeCache struct {
	backend Cache
}

// NewTreeCache wraps backend.
func NewTreeCache(backend Cache) *TreeCache {
	return &TreeCache{backend: backend}
}

func storePrefix(storeID int64) string {
	return fmt.Sprintf("menu:%d:", storeID)
}

// TreeKey returns the cache key of a store's tree at location.
func TreeKey(storeID int64, location string) string {
	return storePrefix(storeID) + location
}

// GetOrLoad returns the cached tree, or calls load and caches its result.
// Backend failures degrade to calling load; they are logged, not returned.
func (c *TreeCache) GetOrLoad(ctx context.Context, storeID int64, location string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	key := TreeKey(storeID, location)

	data, err := c.backend.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("menu cache read failed", "key", key, "error", err)
	}

	data, err = load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.backend.Set(ctx, key, data, 0); err != nil {
		slog.Warn("menu cache write failed", "key", key, "error", err)
	}
	return data, nil
}

// InvalidateStore drops every cached tree of the store.
func (c *TreeCache) InvalidateStore(ctx context.Context, storeID int64) {
	if err := c.backend.DeleteByPrefix(ctx, storePrefix(storeID)); err != nil {
		slog.Warn("menu cache invalidation failed", "store_id", storeID, "error", err)
	}
}
