// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type Event struct {
	ID        int64         `json:"id"`
	Level     string        `json:"level"`
	Category  string        `json:"category"`
	Message   string        `json:"message"`
	UserID    sql.NullInt64 `json:"user_id"`
	Metadata  string        `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type Menu struct {
	ID        int64          `json:"id"`
	StoreID   int64          `json:"store_id"`
	Name      string         `json:"name"`
	Location  sql.NullString `json:"location"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type MenuItem struct {
	ID            int64          `json:"id"`
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

type Storefront struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash"`
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
}
