// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads shopadmin settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable name in Config.
const EnvPrefix = "SHOPADMIN_"

// knownWeakSecrets contains example secrets that must never reach a deployment.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
// Variable names are the tag names with EnvPrefix prepended.
type Config struct {
	DBDriver      string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"DB_PATH" envDefault:"./data/shopadmin.db"`
	DBDSN         string `env:"DB_DSN"` // MySQL DSN, used when DBDriver is mysql
	SessionSecret string `env:"SESSION_SECRET,required"`
	ServerHost    string `env:"SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL     string        `env:"REDIS_URL"`
	CachePrefix  string        `env:"CACHE_PREFIX" envDefault:"shopadmin:"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	CacheMaxSize int           `env:"CACHE_MAX_SIZE" envDefault:"1000"`

	// Image sweep
	SweepSchedule string        `env:"SWEEP_SCHEDULE" envDefault:"@hourly"`
	SweepGrace    time.Duration `env:"SWEEP_GRACE" envDefault:"1h"`

	// Login throttling per client IP
	LoginRate  float64 `env:"LOGIN_RATE" envDefault:"0.2"` // attempts per second
	LoginBurst int     `env:"LOGIN_BURST" envDefault:"5"`

	// Bootstrap admin, created on first start when no user exists
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// DBSource returns the path or DSN handed to store.Open.
func (c Config) DBSource() string {
	if c.DBDriver == "mysql" {
		return c.DBDSN
	}
	return c.DBPath
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// LoadDotEnv reads variables from the given files (default ".env") into the
// process environment. Missing files are ignored; set variables win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("%sSESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			EnvPrefix, MinSessionSecretLength, len(cfg.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("%sSESSION_SECRET is a known default value and must not be used", EnvPrefix)
		}
	}
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn(EnvPrefix + "SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "mysql":
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("%sDB_DSN is required when %sDB_DRIVER=mysql", EnvPrefix, EnvPrefix)
		}
	default:
		return nil, fmt.Errorf("%sDB_DRIVER must be sqlite or mysql, got %q", EnvPrefix, cfg.DBDriver)
	}

	if cfg.LoginRate <= 0 || cfg.LoginBurst < 1 {
		return nil, fmt.Errorf("%sLOGIN_RATE must be positive and %sLOGIN_BURST at least 1", EnvPrefix, EnvPrefix)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	for _, class := range []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	} {
		if strings.ContainsAny(s, class) {
			charTypes++
		}
	}
	return charTypes >= 3
}
