// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the site configuration from FOLIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL    string `env:"FOLIO_API_BASE_URL" envDefault:"http://127.0.0.1:5000"`
	SessionSecret string `env:"FOLIO_SESSION_SECRET,required"`
	ServerHost    string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"FOLIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel      string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`
	DBPath        string `env:"FOLIO_DB_PATH" envDefault:"./data/folio.db"`
	SiteURL       string `env:"FOLIO_SITE_URL" envDefault:"http://localhost:8080"`

	// Remote repository behaviour
	Fallback       string        `env:"FOLIO_FALLBACK" envDefault:"propagate"` // propagate | fallback
	Offline        bool          `env:"FOLIO_OFFLINE" envDefault:"false"`      // serve bundled data, no remote
	DemoPassword   string        `env:"FOLIO_DEMO_PASSWORD" envDefault:"demo123"`
	RequestTimeout time.Duration `env:"FOLIO_REQUEST_TIMEOUT" envDefault:"10s"`

	// Cache configuration
	RedisURL        string        `env:"FOLIO_REDIS_URL"` // Optional Redis URL for a shared cache
	CachePrefix     string        `env:"FOLIO_CACHE_PREFIX" envDefault:"folio:"`
	CacheTTL        time.Duration `env:"FOLIO_CACHE_TTL" envDefault:"5m"`
	RefreshSchedule string        `env:"FOLIO_REFRESH_SCHEDULE" envDefault:"*/10 * * * *"`

	// EventRetention is how long warning/error events are kept.
	EventRetention time.Duration `env:"FOLIO_EVENT_RETENTION" envDefault:"720h"`
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

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("FOLIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, errors.New("FOLIO_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FOLIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	c.Fallback = strings.ToLower(strings.TrimSpace(c.Fallback))
	switch c.Fallback {
	case "", "propagate", "fallback":
	default:
		return fmt.Errorf("FOLIO_FALLBACK must be %q or %q, got %q", "propagate", "fallback", c.Fallback)
	}

	if !c.Offline {
		u, err := url.Parse(c.APIBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("FOLIO_API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
		}
	}
	if c.Offline && c.DemoPassword == "" {
		return errors.New("FOLIO_DEMO_PASSWORD is required when FOLIO_OFFLINE is set")
	}

	if c.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			return fmt.Errorf("FOLIO_REFRESH_SCHEDULE is not a valid cron expression: %w", err)
		}
	}

	if c.RequestTimeout <= 0 {
		return errors.New("FOLIO_REQUEST_TIMEOUT must be positive")
	}
	return nil
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
