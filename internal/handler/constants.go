// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixDelete is the suffix for delete routes posted from HTML forms.
	RouteSuffixDelete = "/delete"
	// RouteSuffixBulk is the suffix for bulk add routes.
	RouteSuffixBulk = "/bulk"
	// RouteSuffixReorder is the suffix for reorder routes.
	RouteSuffixReorder = "/reorder"
	// RouteSuffixMove is the suffix for move routes.
	RouteSuffixMove = "/move"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteItems is the menu items sub-route.
	RouteItems = "/items"
	// RouteItemsItemID is the items item-ID route pattern.
	RouteItemsItemID = RouteItems + "/{itemId}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteHealth is the health check route.
	RouteHealth = "/health"

	// RouteAdmin is the admin prefix.
	RouteAdmin = "/admin"
	// RouteMenus is the menus admin route.
	RouteMenus = "/menus"
	// RouteMenusID is the menus ID route pattern.
	RouteMenusID = RouteMenus + RouteParamID
	// RouteStoresSwitch switches the current store.
	RouteStoresSwitch = "/stores/switch"

	// RouteAPIMenuLocation is the public menu tree route.
	RouteAPIMenuLocation = "/api/menus/{location}"
)

const (
	redirectAdmin        = RouteAdmin
	redirectAdminMenus   = redirectAdmin + RouteMenus
	redirectAdminMenusID = redirectAdminMenus + "/%d"
	redirectLogin        = RouteLogin
)

// Utility constants used by main.go.
const (
	// UploadsDirPath is the default uploads directory path.
	UploadsDirPath = "./uploads"
	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"
	// maxUploadMemory bounds the in-memory part of multipart parsing.
	maxUploadMemory = 32 << 20
	// bulkRows is the number of empty rows offered by the bulk add form.
	bulkRows = 5
)
