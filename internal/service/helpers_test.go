// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/shopadmin/internal/cache"
	"github.com/olegiv/shopadmin/internal/store"
)

const defaultStore int64 = 1

// testDB creates a migrated SQLite database in a temp directory.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "service-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db, store.DriverSQLite))
	return db
}

// fakeImages records uploads and fails for files named "bad.png".
type fakeImages struct {
	saved []string
}

func (f *fakeImages) SaveMenuImage(r io.Reader, filename string) (string, error) {
	if filename == "bad.png" {
		return "", errors.New("unsupported image format")
	}
	_, _ = io.Copy(io.Discard, r)
	p := "menu/fake/" + filename
	f.saved = append(f.saved, p)
	return p, nil
}

type serviceFixture struct {
	db     *sql.DB
	svc    *MenuService
	images *fakeImages
	trees  *cache.MemoryCache
	q      *store.Queries
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := testDB(t)
	images := &fakeImages{}
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = backend.Close() })

	return &serviceFixture{
		db:     db,
		svc:    NewMenuService(db, images, cache.NewTreeCache(backend)),
		images: images,
		trees:  backend,
		q:      store.New(db),
	}
}

func (f *serviceFixture) menu(t *testing.T, name string) store.Menu {
	t.Helper()
	m, err := f.svc.CreateMenu(context.Background(), defaultStore, name)
	require.NoError(t, err)
	return m
}

func (f *serviceFixture) item(t *testing.T, menuID, parentID int64, label string) store.MenuItem {
	t.Helper()
	it, err := f.svc.AddItem(context.Background(), defaultStore, menuID, ItemInput{
		Label:    label,
		URL:      "/" + label,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return it
}

func (f *serviceFixture) reload(t *testing.T, itemID int64) store.MenuItem {
	t.Helper()
	it, err := f.q.GetMenuItemByID(context.Background(), itemID)
	require.NoError(t, err)
	return it
}

func (f *serviceFixture) secondStore(t *testing.T) int64 {
	t.Helper()
	sf, err := f.q.CreateStorefront(context.Background(), store.CreateStorefrontParams{
		Name:      "Outlet",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return sf.ID
}

func intPtr(n int) *int { return &n }
