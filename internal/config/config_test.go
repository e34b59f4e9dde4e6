// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-Key-32-bytes-long!!!"

// clearEnv unsets every FOLIO_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "FOLIO_") {
			t.Setenv(key, "")
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOLIO_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBaseURL != "http://127.0.0.1:5000" {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://127.0.0.1:5000")
	}
	if cfg.DBPath != "./data/folio.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/folio.db")
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
	if cfg.Fallback != "propagate" {
		t.Errorf("Fallback = %q, want %q", cfg.Fallback, "propagate")
	}
	if cfg.Offline {
		t.Error("Offline should default to false")
	}
	if cfg.CachePrefix != "folio:" {
		t.Errorf("CachePrefix = %q, want %q", cfg.CachePrefix, "folio:")
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, 5*time.Minute)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, 10*time.Second)
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be false without FOLIO_REDIS_URL")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOLIO_SESSION_SECRET", testSecret)
	t.Setenv("FOLIO_API_BASE_URL", "https://api.example.com")
	t.Setenv("FOLIO_DB_PATH", "/custom/path.db")
	t.Setenv("FOLIO_SERVER_HOST", "0.0.0.0")
	t.Setenv("FOLIO_SERVER_PORT", "3000")
	t.Setenv("FOLIO_ENV", "production")
	t.Setenv("FOLIO_FALLBACK", "Fallback")
	t.Setenv("FOLIO_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FOLIO_CACHE_TTL", "90s")
	t.Setenv("FOLIO_REFRESH_SCHEDULE", "@every 1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() should be false in production")
	}
	if cfg.Fallback != "fallback" {
		t.Errorf("Fallback = %q, want %q", cfg.Fallback, "fallback")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be true")
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, 90*time.Second)
	}
}

func TestLoad_RequiredSessionSecret(t *testing.T) {
	clearEnv(t)

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without FOLIO_SESSION_SECRET")
	}
}

func TestLoad_SessionSecretValidation(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"too short", "short", true},
		{"31 bytes", strings.Repeat("a", 31), true},
		{"known default", "change-me-to-32-byte-secret-key!", true},
		{"exactly 32 bytes", strings.Repeat("a", 32), false},
		{"strong", testSecret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("FOLIO_SESSION_SECRET", tt.secret)

			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown fallback", "FOLIO_FALLBACK", "retry"},
		{"relative base URL", "FOLIO_API_BASE_URL", "/api"},
		{"bad cron", "FOLIO_REFRESH_SCHEDULE", "every minute"},
		{"zero timeout", "FOLIO_REQUEST_TIMEOUT", "0s"},
		{"bad duration", "FOLIO_CACHE_TTL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("FOLIO_SESSION_SECRET", testSecret)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_Offline(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOLIO_SESSION_SECRET", testSecret)
	t.Setenv("FOLIO_OFFLINE", "true")
	t.Setenv("FOLIO_API_BASE_URL", "not a url")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Offline {
		t.Error("Offline should be true")
	}
	if cfg.DemoPassword != "demo123" {
		t.Errorf("DemoPassword = %q, want %q", cfg.DemoPassword, "demo123")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{strings.Repeat("a", 32), false},
		{"abcdefABCDEF", false},
		{"abcABC123", true},
		{"abc-123-xyz", true},
		{testSecret, true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.in); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
	}

	for _, tt := range tests {
		cfg := Config{Env: tt.env}
		if got := cfg.IsDevelopment(); got != tt.want {
			t.Errorf("IsDevelopment() with Env=%q = %v, want %v", tt.env, got, tt.want)
		}
	}
}
