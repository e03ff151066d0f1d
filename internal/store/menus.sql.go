// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const menuColumns = `id, store_id, name, location, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMenu(row rowScanner) (Menu, error) {
	var i Menu
	err := row.Scan(
		&i.ID,
		&i.StoreID,
		&i.Name,
		&i.Location,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createMenu = `
INSERT INTO menus (store_id, name, location, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateMenuParams struct {
	StoreID   int64          `json:"store_id"`
	Name      string         `json:"name"`
	Location  sql.NullString `json:"location"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (Menu, error) {
	res, err := q.db.ExecContext(ctx, createMenu,
		arg.StoreID,
		arg.Name,
		arg.Location,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Menu{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Menu{}, err
	}
	return q.GetMenuByID(ctx, id)
}

const getMenuByID = `SELECT ` + menuColumns + ` FROM menus WHERE id = ?`

func (q *Queries) GetMenuByID(ctx context.Context, id int64) (Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getMenuByID, id))
}

const getMenuForStore = `SELECT ` + menuColumns + ` FROM menus WHERE id = ? AND store_id = ?`

type GetMenuForStoreParams struct {
	ID      int64 `json:"id"`
	StoreID int64 `json:"store_id"`
}

func (q *Queries) GetMenuForStore(ctx context.Context, arg GetMenuForStoreParams) (Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getMenuForStore, arg.ID, arg.StoreID))
}

const getMenuByLocation = `SELECT ` + menuColumns + ` FROM menus WHERE store_id = ? AND location = ?`

type GetMenuByLocationParams struct {
	StoreID  int64  `json:"store_id"`
	Location string `json:"location"`
}

func (q *Queries) GetMenuByLocation(ctx context.Context, arg GetMenuByLocationParams) (Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getMenuByLocation, arg.StoreID, arg.Location))
}

const listMenus = `SELECT ` + menuColumns + ` FROM menus WHERE store_id = ? ORDER BY name, id`

func (q *Queries) ListMenus(ctx context.Context, storeID int64) ([]Menu, error) {
	rows, err := q.db.QueryContext(ctx, listMenus, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Menu{}
	for rows.Next() {
		i, err := scanMenu(rows)
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

const updateMenu = `UPDATE menus SET name = ?, location = ?, updated_at = ? WHERE id = ?`

type UpdateMenuParams struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Location  sql.NullString `json:"location"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (q *Queries) UpdateMenu(ctx context.Context, arg UpdateMenuParams) error {
	_, err := q.db.ExecContext(ctx, updateMenu, arg.Name, arg.Location, arg.UpdatedAt, arg.ID)
	return err
}

const clearMenuLocation = `
UPDATE menus SET location = NULL, updated_at = ?
WHERE store_id = ? AND location = ? AND id <> ?
`

type ClearMenuLocationParams struct {
	StoreID   int64     `json:"store_id"`
	Location  string    `json:"location"`
	ExcludeID int64     `json:"exclude_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClearMenuLocation removes location from every other menu of the store and
// returns how many menus were affected.
func (q *Queries) ClearMenuLocation(ctx context.Context, arg ClearMenuLocationParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, clearMenuLocation, arg.UpdatedAt, arg.StoreID, arg.Location, arg.ExcludeID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteMenu = `DELETE FROM menus WHERE id = ?`

func (q *Queries) DeleteMenu(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMenu, id)
	return err
}
