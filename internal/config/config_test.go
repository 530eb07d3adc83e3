// Copyright (c) 2026 The MRE Site Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func setHostedBackend(t *testing.T) {
	t.Helper()
	setEnv(t, "MRE_SUPABASE_URL", "https://abc.supabase.co/")
	setEnv(t, "MRE_SUPABASE_ANON_KEY", "anon-key")
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setHostedBackend(t)
	setEnv(t, "MRE_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Backend != BackendSupabase {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendSupabase)
	}
	if cfg.SupabaseURL != "https://abc.supabase.co" {
		t.Errorf("SupabaseURL = %q, want trailing slash trimmed", cfg.SupabaseURL)
	}
	if cfg.DBPath != "./data/mre.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/mre.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.StoreTimeout != 15*time.Second {
		t.Errorf("StoreTimeout = %v, want %v", cfg.StoreTimeout, 15*time.Second)
	}
	if cfg.Timezone != "Africa/Kinshasa" {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, "Africa/Kinshasa")
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MRE_BACKEND", "sqlite")
	setEnv(t, "MRE_SESSION_SECRET", testSecret)
	setEnv(t, "MRE_DB_PATH", "/custom/path.db")
	setEnv(t, "MRE_SERVER_HOST", "0.0.0.0")
	setEnv(t, "MRE_SERVER_PORT", "3000")
	setEnv(t, "MRE_ENV", "production")
	setEnv(t, "MRE_LOG_LEVEL", "debug")
	setEnv(t, "MRE_STORE_TIMEOUT", "3s")
	setEnv(t, "MRE_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.UseSupabase() {
		t.Error("UseSupabase() = true, want false")
	}
	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.StoreTimeout != 3*time.Second {
		t.Errorf("StoreTimeout = %v, want %v", cfg.StoreTimeout, 3*time.Second)
	}
}

func TestLoad_MissingBackendSettings(t *testing.T) {
	tests := []struct {
		name string
		url  string
		key  string
	}{
		{"both missing", "", ""},
		{"url missing", "", "anon-key"},
		{"key missing", "https://abc.supabase.co", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "MRE_SESSION_SECRET", testSecret)
			if tt.url != "" {
				setEnv(t, "MRE_SUPABASE_URL", tt.url)
			}
			if tt.key != "" {
				setEnv(t, "MRE_SUPABASE_ANON_KEY", tt.key)
			}

			_, err := Load()
			if !errors.Is(err, ErrMissingBackendConfig) {
				t.Errorf("Load() error = %v, want ErrMissingBackendConfig", err)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "relative url",
			env:     map[string]string{"MRE_SUPABASE_URL": "abc.supabase.co", "MRE_SUPABASE_ANON_KEY": "k"},
			wantErr: "MRE_SUPABASE_URL",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"MRE_BACKEND": "mongo"},
			wantErr: "MRE_BACKEND",
		},
		{
			name:    "unknown timezone",
			env:     map[string]string{"MRE_BACKEND": "sqlite", "MRE_TIMEZONE": "Mars/Olympus"},
			wantErr: "MRE_TIMEZONE",
		},
		{
			name:    "short secret",
			env:     map[string]string{"MRE_BACKEND": "sqlite", "MRE_SESSION_SECRET": "short"},
			wantErr: "at least 32 bytes",
		},
		{
			name:    "missing secret in production",
			env:     map[string]string{"MRE_BACKEND": "sqlite", "MRE_ENV": "production"},
			wantErr: "required outside development",
		},
		{
			name: "weak secret in production",
			env: map[string]string{
				"MRE_BACKEND": "sqlite", "MRE_ENV": "production",
				"MRE_SESSION_SECRET": "change-me-to-32-byte-secret-key!",
			},
			wantErr: "known default value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if _, ok := tt.env["MRE_SESSION_SECRET"]; !ok {
				setEnv(t, "MRE_SESSION_SECRET", testSecret)
			}
			if tt.env["MRE_ENV"] == "production" && tt.env["MRE_SESSION_SECRET"] == "" {
				os.Unsetenv("MRE_SESSION_SECRET")
			}
			for k, v := range tt.env {
				setEnv(t, k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_GeneratesDevelopmentSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "MRE_BACKEND", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		t.Errorf("generated secret length = %d, want >= %d", len(cfg.SessionSecret), MinSessionSecretLength)
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"aaaaaaaaaaaaaaaaAAAAAAAAAAAAAAAA", false},
		{"aaaaaaaaaaAAAAAAAAAA000000000000", true},
		{testSecret, true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
