// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/shopadmin/internal/model"
	"github.com/olegiv/shopadmin/internal/service"
	"github.com/olegiv/shopadmin/internal/store"
)

// StorefrontHandler serves menu trees to storefront renderers.
type StorefrontHandler struct {
	queries     *store.Queries
	menuService *service.MenuService
}

// NewStorefrontHandler creates a new StorefrontHandler.
func NewStorefrontHandler(db *sql.DB, menus *service.MenuService) *StorefrontHandler {
	return &StorefrontHandler{
		queries:     store.New(db),
		menuService: menus,
	}
}

// MenuByLocation handles GET /api/menus/{location}?store=ID. Without a store
// parameter the default storefront is used. The body is the nested item tree.
func (h *StorefrontHandler) MenuByLocation(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	storeID, ok := h.resolveStore(w, r)
	if !ok {
		return
	}

	location := model.Location(chi.URLParam(r, "location"))
	body, err := h.menuService.GetTreeByLocation(r.Context(), storeID, location)
	if err != nil {
		status := service.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to load menu tree", "error", err, "store_id", storeID, "location", location)
		}
		writeJSONError(w, status, service.UserMessage(err))
		return
	}

	tag := etagFor(body)
	w.Header().Set("ETag", tag)
	w.Header().Set("Cache-Control", "public, max-age=60")
	if !noneMatch(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set(HeaderContentType, "application/json")
	_, _ = w.Write(body)
}

func (h *StorefrontHandler) resolveStore(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("store")
	if raw == "" {
		def, err := h.queries.GetDefaultStorefront(r.Context())
		if err != nil {
			slog.Error("failed to load default storefront", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
			return 0, false
		}
		return def.ID, true
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid store id")
		return 0, false
	}
	if _, err := h.queries.GetStorefrontByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusNotFound, "store not found")
		} else {
			slog.Error("failed to load storefront", "error", err, "store_id", id)
			writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return 0, false
	}
	return id, true
}

// etagFor returns a strong ETag over body.
func etagFor(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}

// parseETag strips the weak prefix and quotes.
func parseETag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "W/")
	if len(tag) >= 2 && tag[0] == '"' && tag[len(tag)-1] == '"' {
		return tag[1 : len(tag)-1]
	}
	return tag
}

// noneMatch reports whether the If-None-Match header lets the request
// proceed, i.e. no listed tag equals current.
func noneMatch(ifNoneMatch, current string) bool {
	if ifNoneMatch == "" {
		return true
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return false
	}
	want := parseETag(current)
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if parseETag(candidate) == want {
			return false
		}
	}
	return true
}
