// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/shopadmin/internal/menutree"
	"github.com/olegiv/shopadmin/internal/middleware"
	"github.com/olegiv/shopadmin/internal/model"
	"github.com/olegiv/shopadmin/internal/render"
	"github.com/olegiv/shopadmin/internal/service"
	"github.com/olegiv/shopadmin/internal/store"
)

// maxJSONBody caps reorder and move payloads.
const maxJSONBody = 1 << 20

// MenusHandler handles menu management routes.
type MenusHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	menuService    *service.MenuService
	eventService   *service.EventService
}

// NewMenusHandler creates a new MenusHandler.
func NewMenusHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, menus *service.MenuService) *MenusHandler {
	return &MenusHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		menuService:    menus,
		eventService:   service.NewEventService(db),
	}
}

// MenusListData holds data for the menus list template.
type MenusListData struct {
	Menus []store.Menu
}

// MenuFormData holds data for the menu editor template.
type MenuFormData struct {
	Menu     store.Menu
	Tree     []*menutree.Node
	Items    []*menutree.Item
	Parents  []render.ParentOption
	BulkRows []int
}

// List handles GET /admin/menus - displays a list of menus.
func (h *MenusHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, nil)
}

func (h *MenusHandler) renderList(w http.ResponseWriter, r *http.Request, formErrors map[string]string) {
	storeID := middleware.GetStoreID(r.Context())

	menus, err := h.menuService.ListMenus(r.Context(), storeID)
	if err != nil {
		logAndInternalError(w, "failed to list menus", "error", err, "store_id", storeID)
		return
	}

	data := adminData(r, h.queries, "Menus", MenusListData{Menus: menus})
	data.Errors = formErrors
	renderPage(w, r, h.renderer, "admin/menus_list", data)
}

// Create handles POST /admin/menus - creates a new menu.
func (h *MenusHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid form data")
		return
	}

	storeID := middleware.GetStoreID(r.Context())
	menu, err := h.menuService.CreateMenu(r.Context(), storeID, r.FormValue("name"))
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			h.renderList(w, r, map[string]string{ve.Field: ve.Message})
			return
		}
		slog.Error("failed to create menu", "error", err, "store_id", storeID)
		flashError(w, r, h.renderer, redirectAdminMenus, service.UserMessage(err))
		return
	}

	_ = h.eventService.LogMenuEvent(r.Context(), "Menu created", middleware.GetUserID(r),
		map[string]any{"menu_id": menu.ID, "name": menu.Name})
	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectAdminMenusID, menu.ID), "Menu created")
}

// Edit handles GET /admin/menus/{id} - displays the menu editor.
func (h *MenusHandler) Edit(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid menu ID")
		return
	}
	h.renderEdit(w, r, menuID, nil)
}

func (h *MenusHandler) renderEdit(w http.ResponseWriter, r *http.Request, menuID int64, formErrors map[string]string) {
	storeID := middleware.GetStoreID(r.Context())

	menu, err := h.menuService.GetMenu(r.Context(), storeID, menuID)
	if err != nil {
		h.redirectOnError(w, r, redirectAdminMenus, "failed to load menu", err, "menu_id", menuID)
		return
	}
	tree, err := h.menuService.GetMenuTree(r.Context(), storeID, menuID)
	if err != nil {
		h.redirectOnError(w, r, redirectAdminMenus, "failed to load menu tree", err, "menu_id", menuID)
		return
	}

	rows := make([]int, bulkRows)
	for i := range rows {
		rows[i] = i
	}

	data := adminData(r, h.queries, menu.Name, MenuFormData{
		Menu:     menu,
		Tree:     tree,
		Items:    depthFirst(tree),
		Parents:  render.ParentOptions(tree),
		BulkRows: rows,
	})
	data.Errors = formErrors
	renderPage(w, r, h.renderer, "admin/menus_form", data)
}

// Update handles POST /admin/menus/{id} - renames a menu and sets its location.
func (h *MenusHandler) Update(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid menu ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminMenusID, menuID)

	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, editURL, "Invalid form data")
		return
	}

	location, err := model.ParseLocation(r.FormValue("location"))
	if err != nil {
		h.renderEdit(w, r, menuID, map[string]string{"location": "Unknown location"})
		return
	}

	storeID := middleware.GetStoreID(r.Context())
	menu, err := h.menuService.RenameMenu(r.Context(), storeID, menuID, r.FormValue("name"), location)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			h.renderEdit(w, r, menuID, map[string]string{ve.Field: ve.Message})
			return
		}
		h.redirectOnError(w, r, editURL, "failed to update menu", err, "menu_id", menuID)
		return
	}

	_ = h.eventService.LogMenuEvent(r.Context(), "Menu updated", middleware.GetUserID(r),
		map[string]any{"menu_id": menu.ID, "name": menu.Name, "location": menu.Location.String})
	flashSuccess(w, r, h.renderer, editURL, "Menu saved")
}

// Delete handles POST /admin/menus/{id}/delete - deletes a menu and its items.
func (h *MenusHandler) Delete(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid menu ID")
		return
	}

	storeID := middleware.GetStoreID(r.Context())
	if err := h.menuService.DeleteMenu(r.Context(), storeID, menuID); err != nil {
		h.redirectOnError(w, r, redirectAdminMenus, "failed to delete menu", err, "menu_id", menuID)
		return
	}

	_ = h.eventService.LogMenuEvent(r.Context(), "Menu deleted", middleware.GetUserID(r),
		map[string]any{"menu_id": menuID})
	flashSuccess(w, r, h.renderer, redirectAdminMenus, "Menu deleted")
}

// AddItem handles POST /admin/menus/{id}/items - adds a single item.
func (h *MenusHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid menu ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminMenusID, menuID)

	if err := parseItemForm(r); err != nil {
		flashError(w, r, h.renderer, editURL, "Invalid form data")
		return
	}

	in, err := itemInputFromForm(r)
	if err != nil {
		flashError(w, r, h.renderer, editURL, err.Error())
		return
	}
	upload, cleanup, err := formUpload(r, "image")
	if err != nil {
		flashError(w, r, h.renderer, editURL, "Could not read uploaded image")
		return
	}
	defer cleanup()
	in.Image = upload

	storeID := middleware.GetStoreID(r.Context())
	item, err := h.menuService.AddItem(r.Context(), storeID, menuID, in)
	if err != nil {
		h.redirectOnError(w, r, editURL, "failed to add menu item", err, "menu_id", menuID)
		return
	}

	_ = h.eventService.LogMenuEvent(r.Context(), "Menu item added", middleware.GetUserID(r),
		map[string]any{"menu_id": menuID, "item_id": item.ID, "label": item.Label})
	flashSuccess(w, r, h.renderer, editURL, "Item added")
}

// AddItemsBulk handles POST /admin/menus/{id}/items/bulk - adds several items
// under one parent. Completely empty rows are ignored.
func (h *MenusHandler) AddItemsBulk(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid menu ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminMenusID, menuID)

	if err := parseItemForm(r); err != nil {
		flashError(w, r, h.renderer, editURL, "Invalid form data")
		return
	}

	parentID, err := formInt64(r, "parent_id")
	if err != nil {
		flashError(w, r, h.renderer, editURL, err.Error())
		return
	}

	rows, formRows, cleanup, err := bulkRowsFromForm(r)
	defer cleanup()
	if err != nil {
		flashError(w, r, h.renderer, editURL, "Could not read uploaded image")
		return
	}
	if len(rows) == 0 {
		flashError(w, r, h.renderer, editURL, "No rows to add")
		return
	}

	storeID := middleware.GetStoreID(r.Context())
	result, err := h.menuService.AddItemsBulk(r.Context(), storeID, menuID, parentID, rows)
	if err != nil {
		h.redirectOnError(w, r, editURL, "failed to bulk add menu items", err, "menu_id", menuID)
		return
	}

	if result.Inserted > 0 {
		_ = h.eventService.LogMenuEvent(r.Context(), "Menu items added", middleware.GetUserID(r),
			map[string]any{"menu_id": menuID, "parent_id": parentID, "count": result.Inserted})
	}

	if len(result.Errors) == 0 {
		flashSuccess(w, r, h.renderer, editURL, fmt.Sprintf("%d items added", result.Inserted))
		return
	}

	failures := make([]string, 0, len(result.Errors))
	for _, re := range result.Errors {
		failures = append(failures, fmt.Sprintf("row %d: %s", formRows[re.Row]+1, service.UserMessage(re.Err)))
	}
	flashAndRedirect(w, r, h.renderer, editURL,
		fmt.Sprintf("%d items added; %s", result.Inserted, strings.Join(failures, "; ")), render.FlashError)
}

// UpdateItem handles POST /admin/menus/{id}/items/{itemId} - updates an item.
func (h *MenusHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid menu ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminMenusID, menuID)

	itemID, ok := parseIDParam(r, "itemId")
	if !ok {
		flashError(w, r, h.renderer, editURL, "Invalid item ID")
		return
	}

	if err := parseItemForm(r); err != nil {
		flashError(w, r, h.renderer, editURL, "Invalid form data")
		return
	}

	in, err := itemInputFromForm(r)
	if err != nil {
		flashError(w, r, h.renderer, editURL, err.Error())
		return
	}
	upload, cleanup, err := formUpload(r, "image")
	if err != nil {
		flashError(w, r, h.renderer, editURL, "Could not read uploaded image")
		return
	}
	defer cleanup()

	change := service.ImageChange{Action: service.ImageKeep}
	switch {
	case upload != nil:
		change = service.ImageChange{Action: service.ImageReplace, Upload: upload}
	case r.FormValue("remove_image") != "":
		change.Action = service.ImageRemove
	}

	storeID := middleware.GetStoreID(r.Context())
	item, err := h.menuService.UpdateItem(r.Context(), storeID, menuID, itemID, in, change)
	if err != nil {
		h.redirectOnError(w, r, editURL, "failed to update menu item", err, "menu_id", menuID, "item_id", itemID)
		return
	}

	_ = h.eventService.LogMenuEvent(r.Context(), "Menu item updated", middleware.GetUserID(r),
		map[string]any{"menu_id": menuID, "item_id": item.ID, "label": item.Label})
	flashSuccess(w, r, h.renderer, editURL, "Item saved")
}

// DeleteItem handles POST /admin/menus/{id}/items/{itemId}/delete.
func (h *MenusHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		flashError(w, r, h.renderer, redirectAdminMenus, "Invalid menu ID")
		return
	}
	editURL := fmt.Sprintf(redirectAdminMenusID, menuID)

	itemID, ok := parseIDParam(r, "itemId")
	if !ok {
		flashError(w, r, h.renderer, editURL, "Invalid item ID")
		return
	}

	storeID := middleware.GetStoreID(r.Context())
	if err := h.menuService.DeleteItem(r.Context(), storeID, menuID, itemID); err != nil {
		h.redirectOnError(w, r, editURL, "failed to delete menu item", err, "menu_id", menuID, "item_id", itemID)
		return
	}

	_ = h.eventService.LogMenuEvent(r.Context(), "Menu item deleted", middleware.GetUserID(r),
		map[string]any{"menu_id": menuID, "item_id": itemID})
	flashSuccess(w, r, h.renderer, editURL, "Item deleted")
}

// Reorder handles POST /admin/menus/{id}/reorder. The body maps item ids to
// their new placement: {"12": {"sort_order": 0, "parent_id": 0}, ...}.
func (h *MenusHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid menu ID")
		return
	}

	var updates map[int64]menutree.Placement
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&updates); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	storeID := middleware.GetStoreID(r.Context())
	if err := h.menuService.ReorderTree(r.Context(), storeID, menuID, updates); err != nil {
		h.jsonError(w, "failed to reorder menu", err, "menu_id", menuID)
		return
	}

	_ = h.eventService.LogMenuEvent(r.Context(), "Menu reordered", middleware.GetUserID(r),
		map[string]any{"menu_id": menuID, "items": len(updates)})
	writeJSONSuccess(w, nil)
}

// MoveRequest is the body of a single item move.
type MoveRequest struct {
	ItemID   int64 `json:"item_id"`
	ParentID int64 `json:"parent_id"`
	Index    int   `json:"index"`
}

// Move handles POST /admin/menus/{id}/move - places one item at an index
// among the children of a parent.
func (h *MenusHandler) Move(w http.ResponseWriter, r *http.Request) {
	menuID, ok := parseIDParam(r, "id")
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid menu ID")
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	storeID := middleware.GetStoreID(r.Context())
	if err := h.menuService.MoveItem(r.Context(), storeID, menuID, req.ItemID, req.ParentID, req.Index); err != nil {
		h.jsonError(w, "failed to move menu item", err, "menu_id", menuID, "item_id", req.ItemID)
		return
	}

	writeJSONSuccess(w, nil)
}

// redirectOnError flashes the operator-facing message of err. Only
// unexpected failures are logged at error level.
func (h *MenusHandler) redirectOnError(w http.ResponseWriter, r *http.Request, url, logMsg string, err error, args ...any) {
	if service.HTTPStatus(err) == http.StatusInternalServerError {
		slog.Error(logMsg, append([]any{"error", err}, args...)...)
	} else {
		slog.Debug(logMsg, append([]any{"error", err}, args...)...)
	}
	flashError(w, r, h.renderer, url, service.UserMessage(err))
}

func (h *MenusHandler) jsonError(w http.ResponseWriter, logMsg string, err error, args ...any) {
	status := service.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error(logMsg, append([]any{"error", err}, args...)...)
	} else {
		slog.Warn(logMsg, append([]any{"error", err}, args...)...)
	}
	writeJSONError(w, status, service.UserMessage(err))
}

// depthFirst lists the items of a tree in display order.
func depthFirst(roots []*menutree.Node) []*menutree.Item {
	var out []*menutree.Item
	var walk func(nodes []*menutree.Node)
	walk = func(nodes []*menutree.Node) {
		for _, n := range nodes {
			out = append(out, &n.Item)
			walk(n.Children)
		}
	}
	walk(roots)
	return out
}

// parseItemForm accepts both multipart and urlencoded item forms.
func parseItemForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get(HeaderContentType), "multipart/form-data") {
		return r.ParseMultipartForm(maxUploadMemory)
	}
	return r.ParseForm()
}

// itemInputFromForm reads the shared item fields. An empty sort_order means
// "append after the last sibling".
func itemInputFromForm(r *http.Request) (service.ItemInput, error) {
	in := service.ItemInput{
		Label:         r.FormValue("label"),
		URL:           r.FormValue("url"),
		BadgeText:     r.FormValue("badge_text"),
		CustomClasses: r.FormValue("custom_classes"),
	}

	parentID, err := formInt64(r, "parent_id")
	if err != nil {
		return in, err
	}
	in.ParentID = parentID

	if raw := strings.TrimSpace(r.FormValue("sort_order")); raw != "" {
		order, err := strconv.Atoi(raw)
		if err != nil || order < 0 {
			return in, &service.ValidationError{Field: "sort_order", Message: "position must be a whole number"}
		}
		in.SortOrder = &order
	}
	return in, nil
}

// formInt64 parses an optional non-negative id field; blank reads as zero.
func formInt64(r *http.Request, field string) (int64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, &service.ValidationError{Field: field, Message: "must be a valid id"}
	}
	return v, nil
}

// formUpload returns the named file if one was sent. The cleanup func is
// always safe to call.
func formUpload(r *http.Request, field string) (*service.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if header.Size == 0 {
		_ = file.Close()
		return nil, noop, nil
	}
	return &service.Upload{Reader: file, Filename: header.Filename}, func() { _ = file.Close() }, nil
}

// bulkRowsFromForm collects items[i][label|url|badge] rows with their
// image_i uploads, in index order. formRows holds the form index of each
// returned row.
func bulkRowsFromForm(r *http.Request) (rows []service.BulkItemInput, formRows []int, cleanup func(), err error) {
	var files []multipart.File
	cleanup = func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for i := 0; ; i++ {
		prefix := fmt.Sprintf("items[%d]", i)
		_, hasLabel := r.Form[prefix+"[label]"]
		_, hasURL := r.Form[prefix+"[url]"]
		if !hasLabel && !hasURL {
			break
		}

		row := service.BulkItemInput{
			Label:     r.FormValue(prefix + "[label]"),
			URL:       r.FormValue(prefix + "[url]"),
			BadgeText: r.FormValue(prefix + "[badge]"),
		}

		upload, closeFile, err := formUpload(r, fmt.Sprintf("image_%d", i))
		if err != nil {
			return nil, nil, cleanup, err
		}
		if upload != nil {
			if f, ok := upload.Reader.(multipart.File); ok {
				files = append(files, f)
			}
			row.Image = upload
		} else {
			closeFile()
		}

		if strings.TrimSpace(row.Label) == "" && strings.TrimSpace(row.URL) == "" &&
			strings.TrimSpace(row.BadgeText) == "" && row.Image == nil {
			continue
		}
		rows = append(rows, row)
		formRows = append(formRows, i)
	}
	return rows, formRows, cleanup, nil
}
