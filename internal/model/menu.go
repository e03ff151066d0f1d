// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds small domain enums shared by the service and handler layers.
package model

import "fmt"

// Location is a storefront display slot a menu can occupy.
// At most one menu per store holds a given location.
type Location string

// Menu locations.
const (
	LocationHeaderMain    Location = "header_main"
	LocationHeaderTop     Location = "header_top"
	LocationFooterCompany Location = "footer_company"
	LocationFooterHelp    Location = "footer_help"
	LocationFooterLegal   Location = "footer_legal"
	LocationMobileDrawer  Location = "mobile_drawer"
)

// Locations lists every location in display order.
var Locations = []Location{
	LocationHeaderMain,
	LocationHeaderTop,
	LocationFooterCompany,
	LocationFooterHelp,
	LocationFooterLegal,
	LocationMobileDrawer,
}

var locationLabels = map[Location]string{
	LocationHeaderMain:    "Header (main)",
	LocationHeaderTop:     "Header (top bar)",
	LocationFooterCompany: "Footer: Company",
	LocationFooterHelp:    "Footer: Help",
	LocationFooterLegal:   "Footer: Legal",
	LocationMobileDrawer:  "Mobile drawer",
}

// Label returns the human readable name of the location.
func (l Location) Label() string {
	if s, ok := locationLabels[l]; ok {
		return s
	}
	return string(l)
}

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	_, ok := locationLabels[l]
	return ok
}

// ParseLocation converts a form value into a Location.
// The empty string is returned as nil, meaning "no location".
func ParseLocation(s string) (*Location, error) {
	if s == "" {
		return nil, nil
	}
	l := Location(s)
	if !l.Valid() {
		return nil, fmt.Errorf("unknown menu location %q", s)
	}
	return &l, nil
}
