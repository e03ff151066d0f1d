// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const storefrontColumns = `id, name, is_default, created_at`

func scanStorefront(row rowScanner) (Storefront, error) {
	var i Storefront
	err := row.Scan(&i.ID, &i.Name, &i.IsDefault, &i.CreatedAt)
	return i, err
}

const getDefaultStorefront = `
SELECT ` + storefrontColumns + ` FROM storefronts
ORDER BY is_default DESC, id ASC
LIMIT 1
`

// GetDefaultStorefront returns the storefront flagged as default, or the
// oldest one when none is flagged.
func (q *Queries) GetDefaultStorefront(ctx context.Context) (Storefront, error) {
	return scanStorefront(q.db.QueryRowContext(ctx, getDefaultStorefront))
}

const getStorefrontByID = `SELECT ` + storefrontColumns + ` FROM storefronts WHERE id = ?`

func (q *Queries) GetStorefrontByID(ctx context.Context, id int64) (Storefront, error) {
	return scanStorefront(q.db.QueryRowContext(ctx, getStorefrontByID, id))
}

const listStorefronts = `SELECT ` + storefrontColumns + ` FROM storefronts ORDER BY id`

func (q *Queries) ListStorefronts(ctx context.Context) ([]Storefront, error) {
	rows, err := q.db.QueryContext(ctx, listStorefronts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Storefront{}
	for rows.Next() {
		i, err := scanStorefront(rows)
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

const createStorefront = `INSERT INTO storefronts (name, is_default, created_at) VALUES (?, ?, ?)`

type CreateStorefrontParams struct {
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateStorefront(ctx context.Context, arg CreateStorefrontParams) (Storefront, error) {
	res, err := q.db.ExecContext(ctx, createStorefront, arg.Name, arg.IsDefault, arg.CreatedAt)
	if err != nil {
		return Storefront{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Storefront{}, err
	}
	return q.GetStorefrontByID(ctx, id)
}
