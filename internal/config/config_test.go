// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHOPADMIN_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.DBPath != "./data/shopadmin.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env by default")
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %v, want 1h", cfg.CacheTTL)
	}
	if cfg.SweepSchedule != "@hourly" {
		t.Errorf("SweepSchedule = %q", cfg.SweepSchedule)
	}
	if cfg.UseRedisCache() {
		t.Error("redis should be off by default")
	}
	if cfg.DBSource() != cfg.DBPath {
		t.Errorf("DBSource() = %q, want DBPath", cfg.DBSource())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("SHOPADMIN_SESSION_SECRET", testSecret)
	t.Setenv("SHOPADMIN_DB_DRIVER", "mysql")
	t.Setenv("SHOPADMIN_DB_DSN", "user:pw@tcp(localhost:3306)/shop")
	t.Setenv("SHOPADMIN_SERVER_PORT", "3000")
	t.Setenv("SHOPADMIN_ENV", "production")
	t.Setenv("SHOPADMIN_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SHOPADMIN_CACHE_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DBSource() != "user:pw@tcp(localhost:3306)/shop" {
		t.Errorf("DBSource() = %q", cfg.DBSource())
	}
	if cfg.ServerPort != 3000 {
		t.Errorf("ServerPort = %d", cfg.ServerPort)
	}
	if cfg.IsDevelopment() {
		t.Error("production env reported as development")
	}
	if !cfg.UseRedisCache() {
		t.Error("expected redis cache")
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"SHOPADMIN_SESSION_SECRET": "short"}},
		{"weak secret", map[string]string{"SHOPADMIN_SESSION_SECRET": "change-me-to-32-byte-secret-key!"}},
		{"bad driver", map[string]string{"SHOPADMIN_SESSION_SECRET": testSecret, "SHOPADMIN_DB_DRIVER": "postgres"}},
		{"mysql without dsn", map[string]string{"SHOPADMIN_SESSION_SECRET": testSecret, "SHOPADMIN_DB_DRIVER": "mysql"}},
		{"zero login rate", map[string]string{"SHOPADMIN_SESSION_SECRET": testSecret, "SHOPADMIN_LOGIN_RATE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SHOPADMIN_SESSION_SECRET", "")
			os.Unsetenv("SHOPADMIN_SESSION_SECRET")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SHOPADMIN_UPLOADS_DIR=/srv/uploads\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOPADMIN_UPLOADS_DIR", "")
	os.Unsetenv("SHOPADMIN_UPLOADS_DIR")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("SHOPADMIN_UPLOADS_DIR"); got != "/srv/uploads" {
		t.Errorf("SHOPADMIN_UPLOADS_DIR = %q", got)
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	if hasMinimumEntropy("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa") {
		t.Error("single class accepted")
	}
	if !hasMinimumEntropy(testSecret) {
		t.Error("mixed secret rejected")
	}
}
