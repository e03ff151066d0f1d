// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the admin templates and static assets.
package web

import "embed"

// Templates holds layouts, partials and the admin/auth pages.
//
//go:embed all:templates
var Templates embed.FS

// Static holds the compiled admin script and stylesheet under static/dist.
//
//go:embed all:static/dist
var Static embed.FS
