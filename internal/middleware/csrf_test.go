// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, "0.0.0.0:9000")

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}
	want := map[string]bool{"localhost:8080": true, "127.0.0.1:8080": true, "0.0.0.0:9000": true}
	if len(cfg.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
	for _, origin := range cfg.TrustedOrigins {
		if !want[origin] {
			t.Errorf("unexpected TrustedOrigin %q", origin)
		}
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin should be host:port, not a URL: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_DevDefaultAddrNotDuplicated(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, "localhost:8080")
	if len(cfg.TrustedOrigins) != 2 {
		t.Errorf("TrustedOrigins = %v, want 2 entries", cfg.TrustedOrigins)
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, "shop.example.com:443")
	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %v", cfg.TrustedOrigins)
	}
}

func csrfProtected(cfg CSRFConfig) http.Handler {
	return CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRF_CrossSitePostRejected(t *testing.T) {
	h := csrfProtected(DefaultCSRFConfig(testAuthKey, false, ""))

	req := httptest.NewRequest(http.MethodPost, "/admin/menus", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCSRF_SameOriginPostAllowed(t *testing.T) {
	h := csrfProtected(DefaultCSRFConfig(testAuthKey, false, ""))

	req := httptest.NewRequest(http.MethodPost, "/admin/menus", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCSRF_CrossSiteGetAllowed(t *testing.T) {
	h := csrfProtected(DefaultCSRFConfig(testAuthKey, false, ""))

	req := httptest.NewRequest(http.MethodGet, "/admin/menus", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCSRF_CustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, "")
	called := false
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		http.Error(w, "nope", http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/menus", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	csrfProtected(cfg).ServeHTTP(rec, req)

	if !called || rec.Code != http.StatusTeapot {
		t.Errorf("custom handler called=%v status=%d", called, rec.Code)
	}
}

func TestSkipCSRF_SkipsListedPaths(t *testing.T) {
	h := SkipCSRF("/health")(csrfProtected(DefaultCSRFConfig(testAuthKey, false, "")))

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/admin/menus", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, tt.path, nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}
