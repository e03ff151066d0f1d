// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/shopadmin/internal/store"
)

// CurrentStore resolves the storefront the admin is editing. The session's
// store_id wins when it names an existing storefront; otherwise the default
// storefront is used and remembered in the session.
func CurrentStore(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if id := sm.GetInt64(ctx, SessionKeyStoreID); id != 0 {
				if _, err := queries.GetStorefrontByID(ctx, id); err == nil {
					next.ServeHTTP(w, r.WithContext(WithStoreID(ctx, id)))
					return
				} else if !errors.Is(err, sql.ErrNoRows) {
					slog.Error("failed to load storefront", "store_id", id, "error", err)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				slog.Warn("session store no longer exists", "store_id", id)
			}

			def, err := queries.GetDefaultStorefront(ctx)
			if err != nil {
				slog.Error("failed to load default storefront", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			sm.Put(ctx, SessionKeyStoreID, def.ID)

			next.ServeHTTP(w, r.WithContext(WithStoreID(ctx, def.ID)))
		})
	}
}

// WithStoreID returns a context carrying storeID.
func WithStoreID(ctx context.Context, storeID int64) context.Context {
	return context.WithValue(ctx, ContextKeyStoreID, storeID)
}

// GetStoreID returns the resolved store id, or 0 outside CurrentStore.
func GetStoreID(ctx context.Context) int64 {
	id, _ := ctx.Value(ContextKeyStoreID).(int64)
	return id
}
