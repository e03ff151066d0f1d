// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/shopadmin/internal/middleware"
	"github.com/olegiv/shopadmin/internal/render"
	"github.com/olegiv/shopadmin/internal/store"
)

// adminData fills the layout fields shared by every admin page.
func adminData(r *http.Request, queries *store.Queries, title string, data any) render.TemplateData {
	stores, err := queries.ListStorefronts(r.Context())
	if err != nil {
		slog.Error("failed to list storefronts", "error", err)
	}
	return render.TemplateData{
		Title:   title,
		Data:    data,
		User:    middleware.GetUser(r),
		Stores:  stores,
		StoreID: middleware.GetStoreID(r.Context()),
	}
}

// AdminHandler handles admin routes not tied to a single resource.
type AdminHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *AdminHandler {
	return &AdminHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// Dashboard handles GET /admin. Menus are the only admin resource.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, redirectAdminMenus, http.StatusSeeOther)
}

// SwitchStore handles POST /admin/stores/switch - changes the storefront
// whose menus are being edited.
func (h *AdminHandler) SwitchStore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid form data")
		return
	}

	storeID, err := strconv.ParseInt(r.FormValue("store_id"), 10, 64)
	if err != nil || storeID <= 0 {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid store")
		return
	}

	sf, err := h.queries.GetStorefrontByID(r.Context(), storeID)
	if errors.Is(err, sql.ErrNoRows) {
		flashError(w, r, h.renderer, redirectAdminMenus, "Store not found")
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to load storefront", "error", err, "store_id", storeID)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyStoreID, sf.ID)
	slog.Info("store switched", "store_id", sf.ID, "user_id", middleware.GetUserID(r))
	flashSuccess(w, r, h.renderer, redirectAdminMenus, "Now editing "+sf.Name)
}
