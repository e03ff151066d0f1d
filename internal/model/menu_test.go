// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestParseLocation(t *testing.T) {
	tests := []struct {
		input   string
		want    Location
		wantNil bool
		wantErr bool
	}{
		{input: "", wantNil: true},
		{input: "header_main", want: LocationHeaderMain},
		{input: "footer_company", want: LocationFooterCompany},
		{input: "mobile_drawer", want: LocationMobileDrawer},
		{input: "sidebar", wantErr: true},
		{input: "HEADER_MAIN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLocation(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseLocation(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLocation(%q) error: %v", tt.input, err)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("ParseLocation(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("ParseLocation(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLocations_AllValidAndLabeled(t *testing.T) {
	seen := make(map[Location]bool)
	for _, l := range Locations {
		if !l.Valid() {
			t.Errorf("%q not valid", l)
		}
		if l.Label() == string(l) {
			t.Errorf("%q has no label", l)
		}
		if seen[l] {
			t.Errorf("%q listed twice", l)
		}
		seen[l] = true
	}
	if Location("nope").Label() != "nope" {
		t.Error("unknown location should label as itself")
	}
}
