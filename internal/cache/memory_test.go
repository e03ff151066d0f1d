// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestMemoryCache(maxSize int) (*MemoryCache, *time.Time) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: maxSize})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestMemoryCache_BasicOperations(t *testing.T) {
	c, _ := newTestMemoryCache(0)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	if err := c.Set(ctx, "key1", []byte("value1"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("expected value1, got %s", val)
	}

	// returned slices are copies
	val[0] = 'X'
	again, _ := c.Get(ctx, "key1")
	if string(again) != "value1" {
		t.Errorf("cache entry mutated through returned slice: %s", again)
	}

	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "key1"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c, now := newTestMemoryCache(0)
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("x"), time.Second)
	_ = c.Set(ctx, "default", []byte("y"), 0)

	*now = now.Add(2 * time.Second)
	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry returned, err = %v", err)
	}
	if _, err := c.Get(ctx, "default"); err != nil {
		t.Errorf("default ttl entry expired early: %v", err)
	}

	*now = now.Add(time.Minute)
	c.removeExpired()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", c.Len())
	}
}

func TestMemoryCache_EvictsSoonestExpiring(t *testing.T) {
	c, _ := newTestMemoryCache(2)
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 10*time.Second)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	_ = c.Set(ctx, "c", []byte("3"), time.Hour)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Error("expected a to be evicted")
	}

	// overwriting an existing key never evicts
	_ = c.Set(ctx, "b", []byte("22"), time.Hour)
	if _, err := c.Get(ctx, "c"); err != nil {
		t.Errorf("c evicted on overwrite: %v", err)
	}
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	c, _ := newTestMemoryCache(0)
	ctx := context.Background()

	_ = c.Set(ctx, "menu:1:header_main", []byte("a"), 0)
	_ = c.Set(ctx, "menu:1:footer_help", []byte("b"), 0)
	_ = c.Set(ctx, "menu:10:header_main", []byte("c"), 0)

	if err := c.DeleteByPrefix(ctx, "menu:1:"); err != nil {
		t.Fatalf("DeleteByPrefix: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if _, err := c.Get(ctx, "menu:10:header_main"); err != nil {
		t.Errorf("other store entry removed: %v", err)
	}
}

func TestMemoryCache_Closed(t *testing.T) {
	c, _ := newTestMemoryCache(0)
	_ = c.Close()
	_ = c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set after close: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get after close: %v", err)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 50, CleanupInterval: time.Millisecond})
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := string(rune('a' + (n+j)%26))
				_ = c.Set(ctx, key, []byte{byte(j)}, 0)
				_, _ = c.Get(ctx, key)
				if j%50 == 0 {
					_ = c.DeleteByPrefix(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()
}
