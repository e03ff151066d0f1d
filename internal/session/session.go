// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the admin session manager.
package session

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

// Lifetime is the absolute lifetime of an admin session.
const Lifetime = 12 * time.Hour

// New creates a session manager. SQLite databases keep sessions in the
// sessions table; other drivers fall back to an in-process store, which
// loses sessions on restart.
func New(db *sql.DB, driver string, isDev bool) *scs.SessionManager {
	sm := scs.New()

	switch driver {
	case "sqlite", "":
		sm.Store = sqlite3store.New(db)
	default:
		slog.Warn("sessions are kept in memory for this database driver", "driver", driver)
		sm.Store = memstore.New()
	}

	sm.Lifetime = Lifetime
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-shopadmin"
	}

	return sm
}
