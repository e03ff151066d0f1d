// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the menu editing operations and the audit event log.
// Every operation takes the current store id explicitly; nothing here reads
// request or session state.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/shopadmin/internal/cache"
	"github.com/olegiv/shopadmin/internal/menutree"
	"github.com/olegiv/shopadmin/internal/model"
	"github.com/olegiv/shopadmin/internal/store"
)

// Field limits.
const (
	MaxNameLength  = 100
	MaxLabelLength = 255
	MaxURLLength   = 2048
	MaxBadgeLength = 32
)

var (
	textPolicy   = bluemonday.StrictPolicy()
	classPattern = regexp.MustCompile(`^[A-Za-z_-][A-Za-z0-9_-]*$`)
)

// ImageStore persists uploaded item images and returns their stored path.
type ImageStore interface {
	SaveMenuImage(r io.Reader, filename string) (string, error)
}

// Upload is an uploaded file.
type Upload struct {
	Reader   io.Reader
	Filename string
}

// ItemInput carries the editable fields of a menu item.
// A nil SortOrder appends the item after its last sibling.
// ParentID 0 means top-level.
type ItemInput struct {
	Label         string
	URL           string
	SortOrder     *int
	ParentID      int64
	BadgeText     string
	CustomClasses string
	Image         *Upload // AddItem only
}

// ImageAction selects what UpdateItem does with an item's image.
type ImageAction int

// Image actions.
const (
	ImageKeep ImageAction = iota
	ImageReplace
	ImageRemove
)

// ImageChange is the image part of an item update.
type ImageChange struct {
	Action ImageAction
	Upload *Upload // required for ImageReplace
}

// BulkItemInput is one row of a bulk add.
type BulkItemInput struct {
	Label     string
	URL       string
	BadgeText string
	Image     *Upload
}

// RowError is the failure of a single bulk row, indexed from zero.
type RowError struct {
	Row int
	Err error
}

// BulkResult reports the outcome of AddItemsBulk.
type BulkResult struct {
	Inserted int
	Items    []store.MenuItem
	Errors   []RowError
}

// MenuService implements menu and menu item editing for one database.
type MenuService struct {
	db      *sql.DB
	queries *store.Queries
	images  ImageStore
	trees   *cache.TreeCache
	now     func() time.Time
}

// NewMenuService creates a MenuService. images and trees may be nil, which
// disables uploads and tree caching respectively.
func NewMenuService(db *sql.DB, images ImageStore, trees *cache.TreeCache) *MenuService {
	return &MenuService{
		db:      db,
		queries: store.New(db),
		images:  images,
		trees:   trees,
		now:     time.Now,
	}
}

// ListMenus returns the store's menus ordered by name.
func (s *MenuService) ListMenus(ctx context.Context, storeID int64) ([]store.Menu, error) {
	menus, err := s.queries.ListMenus(ctx, storeID)
	if err != nil {
		return nil, persistence("listing menus", err)
	}
	return menus, nil
}

// GetMenu returns one menu of the store.
func (s *MenuService) GetMenu(ctx context.Context, storeID, menuID int64) (store.Menu, error) {
	return s.menuFor(ctx, s.queries, storeID, menuID)
}

// GetMenuTree returns the nested items of a menu.
func (s *MenuService) GetMenuTree(ctx context.Context, storeID, menuID int64) ([]*menutree.Node, error) {
	if _, err := s.menuFor(ctx, s.queries, storeID, menuID); err != nil {
		return nil, err
	}
	items, err := s.treeItems(ctx, s.queries, menuID)
	if err != nil {
		return nil, err
	}
	return menutree.Build(items), nil
}

// GetTreeByLocation returns the JSON encoded tree of the menu occupying
// location in the store. Results are cached until the store's menus change.
func (s *MenuService) GetTreeByLocation(ctx context.Context, storeID int64, location model.Location) ([]byte, error) {
	if !location.Valid() {
		return nil, &ValidationError{Field: "location", Message: "unknown location"}
	}

	load := func(ctx context.Context) ([]byte, error) {
		menu, err := s.queries.GetMenuByLocation(ctx, store.GetMenuByLocationParams{
			StoreID:  storeID,
			Location: string(location),
		})
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "menu for location", Key: string(location)}
		}
		if err != nil {
			return nil, persistence("loading menu by location", err)
		}
		items, err := s.treeItems(ctx, s.queries, menu.ID)
		if err != nil {
			return nil, err
		}
		roots := menutree.Build(items)
		if roots == nil {
			roots = []*menutree.Node{}
		}
		return json.Marshal(roots)
	}

	if s.trees == nil {
		return load(ctx)
	}
	return s.trees.GetOrLoad(ctx, storeID, string(location), load)
}

// CreateMenu inserts an empty menu without a location.
func (s *MenuService) CreateMenu(ctx context.Context, storeID int64, name string) (store.Menu, error) {
	name, err := cleanName(name)
	if err != nil {
		return store.Menu{}, err
	}

	now := s.now()
	menu, err := s.queries.CreateMenu(ctx, store.CreateMenuParams{
		StoreID:   storeID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.Menu{}, persistence("creating menu", err)
	}

	slog.Info("menu created", "menu_id", menu.ID, "store_id", storeID, "name", name)
	return menu, nil
}

// RenameMenu updates name and location together. A nil location leaves the
// menu unassigned. Assigning a location first takes it away from whichever
// other menu of the store held it, inside the same transaction.
func (s *MenuService) RenameMenu(ctx context.Context, storeID, menuID int64, name string, location *model.Location) (store.Menu, error) {
	name, err := cleanName(name)
	if err != nil {
		return store.Menu{}, err
	}
	if location != nil && !location.Valid() {
		return store.Menu{}, &ValidationError{Field: "location", Message: "unknown location"}
	}

	var updated store.Menu
	err = s.inTx(ctx, "renaming menu", func(q *store.Queries) error {
		if _, err := s.menuFor(ctx, q, storeID, menuID); err != nil {
			return err
		}

		now := s.now()
		loc := sql.NullString{}
		if location != nil {
			loc = sql.NullString{String: string(*location), Valid: true}
			cleared, err := q.ClearMenuLocation(ctx, store.ClearMenuLocationParams{
				StoreID:   storeID,
				Location:  loc.String,
				ExcludeID: menuID,
				UpdatedAt: now,
			})
			if err != nil {
				return persistence("clearing menu location", err)
			}
			if cleared > 0 {
				slog.Info("menu location reassigned", "location", loc.String, "menu_id", menuID)
			}
		}

		if err := q.UpdateMenu(ctx, store.UpdateMenuParams{
			ID:        menuID,
			Name:      name,
			Location:  loc,
			UpdatedAt: now,
		}); err != nil {
			return persistence("updating menu", err)
		}

		updated, err = q.GetMenuByID(ctx, menuID)
		if err != nil {
			return persistence("reloading menu", err)
		}
		return nil
	})
	if err != nil {
		return store.Menu{}, err
	}

	s.invalidate(ctx, storeID)
	slog.Info("menu updated", "menu_id", menuID, "name", name, "location", updated.Location.String)
	return updated, nil
}

// DeleteMenu removes a menu and all of its items.
func (s *MenuService) DeleteMenu(ctx context.Context, storeID, menuID int64) error {
	err := s.inTx(ctx, "deleting menu", func(q *store.Queries) error {
		if _, err := s.menuFor(ctx, q, storeID, menuID); err != nil {
			return err
		}
		if err := q.DeleteMenuItemsByMenu(ctx, menuID); err != nil {
			return persistence("deleting menu items", err)
		}
		if err := q.DeleteMenu(ctx, menuID); err != nil {
			return persistence("deleting menu", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, storeID)
	slog.Info("menu deleted", "menu_id", menuID, "store_id", storeID)
	return nil
}

// AddItem inserts one item. A non-zero parent must be an item of the same menu.
func (s *MenuService) AddItem(ctx context.Context, storeID, menuID int64, in ItemInput) (store.MenuItem, error) {
	fields, err := cleanItemFields(in.Label, in.URL, in.BadgeText, in.CustomClasses)
	if err != nil {
		return store.MenuItem{}, err
	}
	if _, err := s.menuFor(ctx, s.queries, storeID, menuID); err != nil {
		return store.MenuItem{}, err
	}
	if err := s.checkParent(ctx, s.queries, menuID, in.ParentID); err != nil {
		return store.MenuItem{}, err
	}

	order, err := s.sortOrderFor(ctx, s.queries, menuID, in.ParentID, in.SortOrder)
	if err != nil {
		return store.MenuItem{}, err
	}

	var imagePath sql.NullString
	if in.Image != nil {
		p, err := s.saveImage(in.Image)
		if err != nil {
			return store.MenuItem{}, err
		}
		imagePath = sql.NullString{String: p, Valid: true}
	}

	now := s.now()
	item, err := s.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID:        menuID,
		ParentID:      nullID(in.ParentID),
		Label:         fields.label,
		Url:           fields.url,
		SortOrder:     order,
		ImagePath:     imagePath,
		BadgeText:     nullString(fields.badge),
		CustomClasses: nullString(fields.classes),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return store.MenuItem{}, persistence("creating menu item", err)
	}

	s.invalidate(ctx, storeID)
	slog.Info("menu item created", "item_id", item.ID, "menu_id", menuID, "parent_id", in.ParentID)
	return item, nil
}

// UpdateItem rewrites every editable field of an item. A parent change is
// checked against the menu's current shape before anything is written.
func (s *MenuService) UpdateItem(ctx context.Context, storeID, menuID, itemID int64, in ItemInput, img ImageChange) (store.MenuItem, error) {
	fields, err := cleanItemFields(in.Label, in.URL, in.BadgeText, in.CustomClasses)
	if err != nil {
		return store.MenuItem{}, err
	}
	if img.Action == ImageReplace && img.Upload == nil {
		return store.MenuItem{}, &ValidationError{Field: "image", Message: "no file uploaded"}
	}

	var newImage string
	if img.Action == ImageReplace {
		// Written before the transaction; an orphaned file is collected by the sweep job.
		if newImage, err = s.saveImage(img.Upload); err != nil {
			return store.MenuItem{}, err
		}
	}

	var updated store.MenuItem
	err = s.inTx(ctx, "updating menu item", func(q *store.Queries) error {
		current, err := s.itemFor(ctx, q, storeID, menuID, itemID)
		if err != nil {
			return err
		}

		order := current.SortOrder
		parentChanged := nullID(in.ParentID) != current.ParentID
		if parentChanged || in.SortOrder != nil {
			if err := s.checkParent(ctx, q, menuID, in.ParentID); err != nil {
				return err
			}
			items, err := s.treeItems(ctx, q, menuID)
			if err != nil {
				return err
			}
			if in.SortOrder != nil {
				order = int64(*in.SortOrder)
			} else {
				order = int64(len(menutree.Siblings(items, in.ParentID)))
			}
			if _, err := menutree.Apply(items, map[int64]menutree.Placement{
				itemID: {SortOrder: int(order), ParentID: in.ParentID},
			}); err != nil {
				return structural(err)
			}
		}

		imagePath := current.ImagePath
		switch img.Action {
		case ImageReplace:
			imagePath = sql.NullString{String: newImage, Valid: true}
		case ImageRemove:
			imagePath = sql.NullString{}
		}

		updated, err = q.UpdateMenuItem(ctx, store.UpdateMenuItemParams{
			ID:            itemID,
			ParentID:      nullID(in.ParentID),
			Label:         fields.label,
			Url:           fields.url,
			SortOrder:     order,
			ImagePath:     imagePath,
			BadgeText:     nullString(fields.badge),
			CustomClasses: nullString(fields.classes),
			UpdatedAt:     s.now(),
		})
		if err != nil {
			return persistence("updating menu item", err)
		}
		return nil
	})
	if err != nil {
		return store.MenuItem{}, err
	}

	s.invalidate(ctx, storeID)
	slog.Info("menu item updated", "item_id", itemID, "menu_id", menuID)
	return updated, nil
}

// DeleteItem removes one item. Its children take its place among its
// siblings, under its former parent, in their existing order.
func (s *MenuService) DeleteItem(ctx context.Context, storeID, menuID, itemID int64) error {
	var lifted int
	err := s.inTx(ctx, "deleting menu item", func(q *store.Queries) error {
		if _, err := s.itemFor(ctx, q, storeID, menuID, itemID); err != nil {
			return err
		}
		items, err := s.treeItems(ctx, q, menuID)
		if err != nil {
			return err
		}
		placements, err := menutree.SpliceOut(items, itemID)
		if err != nil {
			return structural(err)
		}
		lifted = len(menutree.Siblings(items, itemID))

		if err := s.writePlacements(ctx, q, menuID, placements); err != nil {
			return err
		}
		if err := q.DeleteMenuItem(ctx, itemID); err != nil {
			return persistence("deleting menu item", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, storeID)
	slog.Info("menu item deleted", "item_id", itemID, "menu_id", menuID, "children_lifted", lifted)
	return nil
}

// AddItemsBulk inserts rows under one common parent, appended after the
// parent's existing children. Rows are independent: a failing row is reported
// in the result and does not undo rows already inserted. The returned error
// covers only problems with the menu or parent themselves.
func (s *MenuService) AddItemsBulk(ctx context.Context, storeID, menuID, parentID int64, rows []BulkItemInput) (BulkResult, error) {
	var result BulkResult

	if _, err := s.menuFor(ctx, s.queries, storeID, menuID); err != nil {
		return result, err
	}
	if err := s.checkParent(ctx, s.queries, menuID, parentID); err != nil {
		return result, err
	}
	next, err := s.sortOrderFor(ctx, s.queries, menuID, parentID, nil)
	if err != nil {
		return result, err
	}

	for i, row := range rows {
		item, err := s.insertBulkRow(ctx, menuID, parentID, next, row)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: i, Err: err})
			continue
		}
		next++
		result.Inserted++
		result.Items = append(result.Items, item)
	}

	if result.Inserted > 0 {
		s.invalidate(ctx, storeID)
	}
	slog.Info("menu items bulk added", "menu_id", menuID, "parent_id", parentID,
		"inserted", result.Inserted, "failed", len(result.Errors))
	return result, nil
}

func (s *MenuService) insertBulkRow(ctx context.Context, menuID, parentID, order int64, row BulkItemInput) (store.MenuItem, error) {
	fields, err := cleanItemFields(row.Label, row.URL, row.BadgeText, "")
	if err != nil {
		return store.MenuItem{}, err
	}

	var imagePath sql.NullString
	if row.Image != nil {
		p, err := s.saveImage(row.Image)
		if err != nil {
			return store.MenuItem{}, err
		}
		imagePath = sql.NullString{String: p, Valid: true}
	}

	now := s.now()
	item, err := s.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID:    menuID,
		ParentID:  nullID(parentID),
		Label:     fields.label,
		Url:       fields.url,
		SortOrder: order,
		ImagePath: imagePath,
		BadgeText: nullString(fields.badge),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.MenuItem{}, persistence("creating menu item", err)
	}
	return item, nil
}

// ReorderTree applies a full or partial parent/order snapshot to a menu.
// The merged shape is validated before any write and all rows are written in
// one transaction; any failure leaves the menu untouched.
func (s *MenuService) ReorderTree(ctx context.Context, storeID, menuID int64, updates map[int64]menutree.Placement) error {
	if len(updates) == 0 {
		return nil
	}

	err := s.inTx(ctx, "reordering menu", func(q *store.Queries) error {
		if _, err := s.menuFor(ctx, q, storeID, menuID); err != nil {
			return err
		}
		items, err := s.treeItems(ctx, q, menuID)
		if err != nil {
			return err
		}
		if _, err := menutree.Apply(items, updates); err != nil {
			return structural(err)
		}
		return s.writePlacements(ctx, q, menuID, updates)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, storeID)
	slog.Info("menu reordered", "menu_id", menuID, "items", len(updates))
	return nil
}

// MoveItem places one item under newParentID at index among its new
// siblings. Sibling orders on both sides are recomputed server side.
func (s *MenuService) MoveItem(ctx context.Context, storeID, menuID, itemID, newParentID int64, index int) error {
	err := s.inTx(ctx, "moving menu item", func(q *store.Queries) error {
		if _, err := s.menuFor(ctx, q, storeID, menuID); err != nil {
			return err
		}
		items, err := s.treeItems(ctx, q, menuID)
		if err != nil {
			return err
		}
		placements, err := menutree.Move(items, itemID, newParentID, index)
		if err != nil {
			return structural(err)
		}
		if _, err := menutree.Apply(items, placements); err != nil {
			return structural(err)
		}
		return s.writePlacements(ctx, q, menuID, placements)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, storeID)
	slog.Info("menu item moved", "item_id", itemID, "menu_id", menuID, "parent_id", newParentID, "index", index)
	return nil
}

// writePlacements updates rows in id order so concurrent writers lock in the
// same sequence.
func (s *MenuService) writePlacements(ctx context.Context, q *store.Queries, menuID int64, placements map[int64]menutree.Placement) error {
	ids := make([]int64, 0, len(placements))
	for id := range placements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	now := s.now()
	for _, id := range ids {
		p := placements[id]
		n, err := q.UpdateMenuItemPlacement(ctx, store.UpdateMenuItemPlacementParams{
			ID:        id,
			MenuID:    menuID,
			ParentID:  nullID(p.ParentID),
			SortOrder: int64(p.SortOrder),
			UpdatedAt: now,
		})
		if err != nil {
			return persistence(fmt.Sprintf("updating placement of item %d", id), err)
		}
		if n == 0 {
			return &NotFoundError{Entity: "menu item", ID: id}
		}
	}
	return nil
}

func (s *MenuService) inTx(ctx context.Context, op string, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence(op+": begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return persistence(op+": commit", err)
	}
	return nil
}

func (s *MenuService) menuFor(ctx context.Context, q *store.Queries, storeID, menuID int64) (store.Menu, error) {
	menu, err := q.GetMenuForStore(ctx, store.GetMenuForStoreParams{ID: menuID, StoreID: storeID})
	if errors.Is(err, sql.ErrNoRows) {
		return store.Menu{}, &NotFoundError{Entity: "menu", ID: menuID}
	}
	if err != nil {
		return store.Menu{}, persistence("loading menu", err)
	}
	return menu, nil
}

func (s *MenuService) itemFor(ctx context.Context, q *store.Queries, storeID, menuID, itemID int64) (store.MenuItem, error) {
	if _, err := s.menuFor(ctx, q, storeID, menuID); err != nil {
		return store.MenuItem{}, err
	}
	item, err := q.GetMenuItemByID(ctx, itemID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && item.MenuID != menuID) {
		return store.MenuItem{}, &NotFoundError{Entity: "menu item", ID: itemID}
	}
	if err != nil {
		return store.MenuItem{}, persistence("loading menu item", err)
	}
	return item, nil
}

// checkParent enforces that a parent belongs to the same menu.
func (s *MenuService) checkParent(ctx context.Context, q *store.Queries, menuID, parentID int64) error {
	if parentID == 0 {
		return nil
	}
	parent, err := q.GetMenuItemByID(ctx, parentID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && parent.MenuID != menuID) {
		return &StructuralError{Reason: fmt.Sprintf("parent item %d is not in this menu", parentID)}
	}
	if err != nil {
		return persistence("loading parent item", err)
	}
	return nil
}

func (s *MenuService) sortOrderFor(ctx context.Context, q *store.Queries, menuID, parentID int64, explicit *int) (int64, error) {
	if explicit != nil {
		if *explicit < 0 {
			return 0, &ValidationError{Field: "sort_order", Message: "must not be negative"}
		}
		return int64(*explicit), nil
	}
	maxOrder, err := q.GetMaxMenuItemSortOrder(ctx, store.GetMaxMenuItemSortOrderParams{
		MenuID:   menuID,
		ParentID: nullID(parentID),
	})
	if err != nil {
		return 0, persistence("reading sibling order", err)
	}
	return maxOrder + 1, nil
}

func (s *MenuService) treeItems(ctx context.Context, q *store.Queries, menuID int64) ([]menutree.Item, error) {
	rows, err := q.ListMenuItems(ctx, menuID)
	if err != nil {
		return nil, persistence("listing menu items", err)
	}
	items := make([]menutree.Item, len(rows))
	for i, r := range rows {
		items[i] = toTreeItem(r)
	}
	return items, nil
}

func (s *MenuService) saveImage(u *Upload) (string, error) {
	if s.images == nil {
		return "", &ValidationError{Field: "image", Message: "image uploads are not enabled"}
	}
	p, err := s.images.SaveMenuImage(u.Reader, u.Filename)
	if err != nil {
		slog.Warn("menu image upload rejected", "filename", u.Filename, "error", err)
		return "", &ValidationError{Field: "image", Message: err.Error()}
	}
	return p, nil
}

func (s *MenuService) invalidate(ctx context.Context, storeID int64) {
	if s.trees != nil {
		s.trees.InvalidateStore(ctx, storeID)
	}
}

func toTreeItem(r store.MenuItem) menutree.Item {
	return menutree.Item{
		ID:            r.ID,
		MenuID:        r.MenuID,
		ParentID:      r.ParentID.Int64,
		SortOrder:     int(r.SortOrder),
		Label:         r.Label,
		URL:           r.Url,
		ImagePath:     r.ImagePath.String,
		BadgeText:     r.BadgeText.String,
		CustomClasses: r.CustomClasses.String,
	}
}

type itemFields struct {
	label, url, badge, classes string
}

func cleanName(name string) (string, error) {
	name = stripTags(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Message: "is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", &ValidationError{Field: "name", Message: fmt.Sprintf("must be at most %d characters", MaxNameLength)}
	}
	return name, nil
}

func cleanItemFields(label, link, badge, classes string) (itemFields, error) {
	f := itemFields{
		label: stripTags(label),
		url:   strings.TrimSpace(link),
		badge: stripTags(badge),
	}
	if f.label == "" {
		return f, &ValidationError{Field: "label", Message: "is required"}
	}
	if utf8.RuneCountInString(f.label) > MaxLabelLength {
		return f, &ValidationError{Field: "label", Message: fmt.Sprintf("must be at most %d characters", MaxLabelLength)}
	}
	if utf8.RuneCountInString(f.badge) > MaxBadgeLength {
		return f, &ValidationError{Field: "badge_text", Message: fmt.Sprintf("must be at most %d characters", MaxBadgeLength)}
	}
	if err := checkURL(f.url); err != nil {
		return f, err
	}

	var cls []string
	for _, c := range strings.Fields(classes) {
		if !classPattern.MatchString(c) {
			return f, &ValidationError{Field: "custom_classes", Message: fmt.Sprintf("invalid class name %q", c)}
		}
		cls = append(cls, c)
	}
	f.classes = strings.Join(cls, " ")
	return f, nil
}

// checkURL accepts empty, fragment, relative and http(s)/mailto/tel links.
func checkURL(link string) error {
	if link == "" || link == "#" {
		return nil
	}
	if len(link) > MaxURLLength {
		return &ValidationError{Field: "url", Message: "is too long"}
	}
	u, err := url.Parse(link)
	if err != nil {
		return &ValidationError{Field: "url", Message: "is not a valid URL"}
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto", "tel":
		return nil
	default:
		return &ValidationError{Field: "url", Message: fmt.Sprintf("scheme %q is not allowed", u.Scheme)}
	}
}

// stripTags removes markup from plain-text fields. Entities are decoded
// again since templates escape on output.
func stripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
