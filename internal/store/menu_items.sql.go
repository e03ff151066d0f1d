// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const menuItemColumns = `id, menu_id, parent_id, label, url, sort_order, image_path, badge_text, custom_classes, created_at, updated_at`

func scanMenuItem(row rowScanner) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.MenuID,
		&i.ParentID,
		&i.Label,
		&i.Url,
		&i.SortOrder,
		&i.ImagePath,
		&i.BadgeText,
		&i.CustomClasses,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createMenuItem = `
INSERT INTO menu_items (menu_id, parent_id, label, url, sort_order, image_path, badge_text, custom_classes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateMenuItemParams struct {
	MenuID        int64          `json:"menu_id"`
	ParentID      sql.NullInt64  `json:"parent_id"`
	Label         string         `json:"label"`
	Url           string         `json:"url"`
	SortOrder     int64          `json:"sort_order"`
	ImagePath     sql.NullString `json:"image_path"`
	BadgeText     sql.NullString `json:"badge_text"`
	CustomClasses sql.NullString `json:"custom_classes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	res, err := q.db.ExecContext(ctx, createMenuItem,
		arg.MenuID,
		arg.ParentID,
		arg.Label,
		arg.Url,
		arg.SortOrder,
		arg.ImagePath,
		arg.BadgeText,
		arg.CustomClasses,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return MenuItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return MenuItem{}, err
	}
	return q.GetMenuItemByID(ctx, id)
}

const getMenuItemByID = `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ?`

func (q *Queries) GetMenuItemByID(ctx context.Context, id int64) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRowContext(ctx, getMenuItemByID, id))
}

const listMenuItems = `SELECT ` + menuItemColumns + ` FROM menu_items WHERE menu_id = ? ORDER BY sort_order, id`

// ListMenuItems returns all items of a menu ordered by sort_order, then id.
func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, listMenuItems, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MenuItem{}
	for rows.Next() {
		i, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMenuItem = `
UPDATE menu_items
SET parent_id = ?, label = ?, url = ?, sort_order = ?, image_path = ?, badge_text = ?, custom_classes = ?, updated_at = ?
WHERE id = ?
`

type UpdateMenuItemParams struct {
	ID            int64          `json:"id"`
	ParentID      sql.NullInt64  `json:"parent_id"`
	Label         string         `json:"label"`
	Url           string         `json:"url"`
	SortOrder     int64          `json:"sort_order"`
	ImagePath     sql.NullString `json:"image_path"`
	BadgeText     sql.NullString `json:"badge_text"`
	CustomClasses sql.NullString `json:"custom_classes"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	_, err := q.db.ExecContext(ctx, updateMenuItem,
		arg.ParentID,
		arg.Label,
		arg.Url,
		arg.SortOrder,
		arg.ImagePath,
		arg.BadgeText,
		arg.CustomClasses,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return MenuItem{}, err
	}
	return q.GetMenuItemByID(ctx, arg.ID)
}

const updateMenuItemPlacement = `
UPDATE menu_items SET parent_id = ?, sort_order = ?, updated_at = ?
WHERE id = ? AND menu_id = ?
`

type UpdateMenuItemPlacementParams struct {
	ID        int64         `json:"id"`
	MenuID    int64         `json:"menu_id"`
	ParentID  sql.NullInt64 `json:"parent_id"`
	SortOrder int64         `json:"sort_order"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// UpdateMenuItemPlacement rewrites parent and order of one item and returns
// the number of rows changed.
func (q *Queries) UpdateMenuItemPlacement(ctx context.Context, arg UpdateMenuItemPlacementParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateMenuItemPlacement,
		arg.ParentID,
		arg.SortOrder,
		arg.UpdatedAt,
		arg.ID,
		arg.MenuID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteMenuItem = `DELETE FROM menu_items WHERE id = ?`

func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMenuItem, id)
	return err
}

const deleteMenuItemsByMenu = `DELETE FROM menu_items WHERE menu_id = ?`

func (q *Queries) DeleteMenuItemsByMenu(ctx context.Context, menuID int64) error {
	_, err := q.db.ExecContext(ctx, deleteMenuItemsByMenu, menuID)
	return err
}

const getMaxMenuItemSortOrder = `
SELECT COALESCE(MAX(sort_order), -1) FROM menu_items
WHERE menu_id = ? AND ((? IS NULL AND parent_id IS NULL) OR parent_id = ?)
`

type GetMaxMenuItemSortOrderParams struct {
	MenuID   int64         `json:"menu_id"`
	ParentID sql.NullInt64 `json:"parent_id"`
}

// GetMaxMenuItemSortOrder returns the highest sort_order among the siblings
// under ParentID, or -1 when there are none.
func (q *Queries) GetMaxMenuItemSortOrder(ctx context.Context, arg GetMaxMenuItemSortOrderParams) (int64, error) {
	var maxOrder int64
	err := q.db.QueryRowContext(ctx, getMaxMenuItemSortOrder, arg.MenuID, arg.ParentID, arg.ParentID).Scan(&maxOrder)
	return maxOrder, err
}

const countMenuItems = `SELECT COUNT(*) FROM menu_items WHERE menu_id = ?`

func (q *Queries) CountMenuItems(ctx context.Context, menuID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countMenuItems, menuID).Scan(&count)
	return count, err
}

const listMenuItemImagePaths = `SELECT DISTINCT image_path FROM menu_items WHERE image_path IS NOT NULL AND image_path <> ''`

func (q *Queries) ListMenuItemImagePaths(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listMenuItemImagePaths)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		items = append(items, path)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
