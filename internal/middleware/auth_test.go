// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/shopadmin/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.NewDB(filepath.Join(t.TempDir(), "middleware-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func testSessions() *scs.SessionManager {
	sm := scs.New()
	sm.Store = memstore.New()
	return sm
}

// withSession runs h inside a loaded session after seeding it with values.
func withSession(sm *scs.SessionManager, values map[string]any, h http.Handler) http.Handler {
	return sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range values {
			sm.Put(r.Context(), k, v)
		}
		h.ServeHTTP(w, r)
	}))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuth(t *testing.T) {
	sm := testSessions()

	rec := httptest.NewRecorder()
	withSession(sm, nil, Auth(sm)(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginPath {
		t.Errorf("anonymous: status=%d location=%q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	withSession(sm, map[string]any{SessionKeyUserID: int64(1)}, Auth(sm)(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("logged in: status=%d", rec.Code)
	}
}

func TestLoadUser(t *testing.T) {
	db := testDB(t)
	sm := testSessions()
	u, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        "admin@example.com",
		PasswordHash: "x",
		Name:         "Admin",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	var got *store.User
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUser(r)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	withSession(sm, map[string]any{SessionKeyUserID: u.ID}, LoadUser(sm, db)(capture)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if got == nil || got.Email != "admin@example.com" {
		t.Fatalf("GetUser() = %+v", got)
	}

	rec = httptest.NewRecorder()
	withSession(sm, map[string]any{SessionKeyUserID: int64(999)}, LoadUser(sm, db)(capture)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("deleted user: status=%d, want redirect", rec.Code)
	}
}

func TestGetUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(req) != nil || GetUserID(req) != 0 {
		t.Error("expected no user")
	}

	ctx := context.WithValue(req.Context(), ContextKeyUser, store.User{ID: 123, Email: "test@example.com"})
	req = req.WithContext(ctx)
	if user := GetUser(req); user == nil || user.Email != "test@example.com" {
		t.Errorf("GetUser() = %+v", user)
	}
	if id := GetUserID(req); id != 123 {
		t.Errorf("GetUserID() = %d, want 123", id)
	}
}
