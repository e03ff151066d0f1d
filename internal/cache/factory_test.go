// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"
)

func TestNew_MemoryByDefault(t *testing.T) {
	c := New(context.Background(), Config{DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("New() = %T, want *MemoryCache", c)
	}
}

func TestNew_FallsBackWhenRedisUnreachable(t *testing.T) {
	c := New(context.Background(), Config{RedisURL: "redis://127.0.0.1:1/0", DefaultTTL: time.Minute})
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("New() = %T, want *MemoryCache fallback", c)
	}
}

func TestNew_FallsBackOnBadURL(t *testing.T) {
	c := New(context.Background(), Config{RedisURL: "not a url"})
	defer func() { _ = c.Close() }()

	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("New() = %T, want *MemoryCache fallback", c)
	}
}
