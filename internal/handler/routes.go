// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/shopadmin/internal/middleware"
	"github.com/olegiv/shopadmin/internal/render"
	"github.com/olegiv/shopadmin/internal/service"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	DB              *sql.DB
	Sessions        *scs.SessionManager
	Renderer        *render.Renderer
	Menus           *service.MenuService
	LoginProtection *middleware.LoginProtection
	CSRF            middleware.CSRFConfig
	Security        middleware.SecurityHeadersConfig

	// Static is served under /static/dist; nil disables it.
	Static fs.FS
	// UploadsDir is served under /uploads; empty disables it.
	UploadsDir string
}

// NewRouter builds the chi router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(cfg.Security))
	r.Use(middleware.SkipCSRF(RouteHealth))
	r.Use(middleware.CSRF(cfg.CSRF))

	healthHandler := NewHealthHandler(cfg.DB)
	storefrontHandler := NewStorefrontHandler(cfg.DB, cfg.Menus)
	authHandler := NewAuthHandler(cfg.DB, cfg.Renderer, cfg.Sessions, cfg.LoginProtection)
	adminHandler := NewAdminHandler(cfg.DB, cfg.Renderer, cfg.Sessions)
	menusHandler := NewMenusHandler(cfg.DB, cfg.Renderer, cfg.Sessions, cfg.Menus)

	r.Get(RouteHealth, healthHandler.Health)
	r.Get(RouteAPIMenuLocation, storefrontHandler.MenuByLocation)

	if cfg.Static != nil {
		r.Handle("/static/dist/*", staticCache(31536000, http.StripPrefix("/static/dist/", http.FileServer(http.FS(cfg.Static)))))
	}
	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", staticCache(604800, http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))))
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.LoadAndSave)

		r.Get(RouteRoot, func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, redirectAdmin, http.StatusSeeOther)
		})
		r.Get(RouteLogin, authHandler.LoginForm)
		if cfg.LoginProtection != nil {
			r.With(cfg.LoginProtection.Middleware()).Post(RouteLogin, authHandler.Login)
		} else {
			r.Post(RouteLogin, authHandler.Login)
		}
		r.Post(RouteLogout, authHandler.Logout)

		r.Route(RouteAdmin, func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Sessions))
			r.Use(middleware.LoadUser(cfg.Sessions, cfg.DB))
			r.Use(middleware.CurrentStore(cfg.Sessions, cfg.DB))

			r.Get(RouteRoot, adminHandler.Dashboard)
			r.Post(RouteStoresSwitch, adminHandler.SwitchStore)

			r.Get(RouteMenus, menusHandler.List)
			r.Post(RouteMenus, menusHandler.Create)
			r.Get(RouteMenusID, menusHandler.Edit)
			r.Post(RouteMenusID, menusHandler.Update)
			r.Post(RouteMenusID+RouteSuffixDelete, menusHandler.Delete)
			r.Post(RouteMenusID+RouteItems, menusHandler.AddItem)
			r.Post(RouteMenusID+RouteItems+RouteSuffixBulk, menusHandler.AddItemsBulk)
			r.Post(RouteMenusID+RouteItemsItemID, menusHandler.UpdateItem)
			r.Post(RouteMenusID+RouteItemsItemID+RouteSuffixDelete, menusHandler.DeleteItem)
			r.Post(RouteMenusID+RouteSuffixReorder, menusHandler.Reorder)
			r.Post(RouteMenusID+RouteSuffixMove, menusHandler.Move)
		})
	})

	return r
}

// staticCache sets a public Cache-Control max-age on file responses.
func staticCache(maxAge int, next http.Handler) http.Handler {
	value := "public, max-age=" + strconv.Itoa(maxAge)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}
