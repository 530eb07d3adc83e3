// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // site time zone must resolve on hosts without zoneinfo

	"github.com/caarlos0/env/v11"
)

// Backend names accepted by MRE_BACKEND.
const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Backend string `env:"MRE_BACKEND" envDefault:"supabase"`

	// Hosted record store and authentication
	SupabaseURL     string        `env:"MRE_SUPABASE_URL"`
	SupabaseAnonKey string        `env:"MRE_SUPABASE_ANON_KEY"`
	StoreTimeout    time.Duration `env:"MRE_STORE_TIMEOUT" envDefault:"15s"`

	// Local SQLite backend
	DBPath        string `env:"MRE_DB_PATH" envDefault:"./data/mre.db"`
	AdminEmail    string `env:"MRE_ADMIN_EMAIL"`
	AdminPassword string `env:"MRE_ADMIN_PASSWORD"`
	SeedDemo      bool   `env:"MRE_SEED_DEMO" envDefault:"false"`

	SessionSecret string `env:"MRE_SESSION_SECRET"`
	ServerHost    string `env:"MRE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"MRE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"MRE_ENV" envDefault:"development"`
	LogLevel      string `env:"MRE_LOG_LEVEL" envDefault:"info"`
	Timezone      string `env:"MRE_TIMEZONE" envDefault:"Africa/Kinshasa"`

	MetricsEnabled bool `env:"MRE_METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseSupabase reports whether the hosted backend is selected.
func (c Config) UseSupabase() bool {
	return c.Backend == BackendSupabase
}

// Location resolves the configured site time zone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// ErrMissingBackendConfig is returned when the hosted backend is selected
// but its URL or API key is not set.
var ErrMissingBackendConfig = errors.New("MRE_SUPABASE_URL and MRE_SUPABASE_ANON_KEY are required")

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.Backend {
	case BackendSupabase:
		if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
			return nil, ErrMissingBackendConfig
		}
		u, err := url.Parse(cfg.SupabaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
			return nil, fmt.Errorf("MRE_SUPABASE_URL must be an absolute http(s) URL, got %q", cfg.SupabaseURL)
		}
		cfg.SupabaseURL = strings.TrimSuffix(cfg.SupabaseURL, "/")
	case BackendSQLite:
	default:
		return nil, fmt.Errorf("MRE_BACKEND must be %q or %q, got %q", BackendSupabase, BackendSQLite, cfg.Backend)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("MRE_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	if err := cfg.validateSessionSecret(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSessionSecret enforces the secret rules in production and fills in
// a per-process random secret in development when none is set.
func (c *Config) validateSessionSecret() error {
	if c.SessionSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("MRE_SESSION_SECRET is required outside development; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("generating session secret: %w", err)
		}
		c.SessionSecret = secret
		slog.Warn("MRE_SESSION_SECRET not set, using a random secret; sessions will not survive a restart")
		return nil
	}

	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("MRE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak && !c.IsDevelopment() {
			return fmt.Errorf("MRE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("MRE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, MinSessionSecretLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawStdEncoding.EncodeToString(b), nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
