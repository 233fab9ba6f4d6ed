// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

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

// knownWeakSecrets contains example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Remote content API
	APIBaseURL string        `env:"GISCC_API_BASE_URL,required"`
	APITimeout time.Duration `env:"GISCC_API_TIMEOUT" envDefault:"15s"`

	SessionSecret   string        `env:"GISCC_SESSION_SECRET,required"`
	SessionLifetime time.Duration `env:"GISCC_SESSION_LIFETIME" envDefault:"24h"`
	DBPath          string        `env:"GISCC_DB_PATH" envDefault:"./data/giscc.db"`

	ServerHost string `env:"GISCC_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"GISCC_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"GISCC_ENV" envDefault:"development"`
	LogLevel   string `env:"GISCC_LOG_LEVEL" envDefault:"info"`

	// Optional Redis for sessions and listing snapshots
	RedisURL    string `env:"GISCC_REDIS_URL"`
	CachePrefix string `env:"GISCC_CACHE_PREFIX" envDefault:"giscc:"`

	// How long a listing snapshot is served before the next page view refetches.
	ListingMaxAge time.Duration `env:"GISCC_LISTING_MAX_AGE" envDefault:"30s"`
	// How long a protected page waits for session verification before
	// rendering the waiting page.
	VerifyWait time.Duration `env:"GISCC_VERIFY_WAIT" envDefault:"2s"`
	// Cron spec of the background listing refresh; RefreshOff disables it.
	RefreshSchedule string `env:"GISCC_REFRESH_SCHEDULE" envDefault:"*/5 * * * *"`

	// Login attempts per minute per client IP.
	LoginRateLimit int `env:"GISCC_LOGIN_RATE_LIMIT" envDefault:"10"`
}

// RefreshOff is the GISCC_REFRESH_SCHEDULE value that turns the background
// listing refresh off. An empty value falls back to the default schedule.
const RefreshOff = "off"

// RefreshEnabled reports whether the background listing refresh should run.
func (c Config) RefreshEnabled() bool {
	return !strings.EqualFold(strings.TrimSpace(c.RefreshSchedule), RefreshOff)
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedis returns true if Redis is configured.
func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
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

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("GISCC_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("GISCC_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("GISCC_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GISCC_API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("GISCC_SERVER_PORT out of range: %d", c.ServerPort)
	}

	if c.RefreshEnabled() {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			return fmt.Errorf("GISCC_REFRESH_SCHEDULE is not a valid cron spec: %w", err)
		}
	}

	if c.LoginRateLimit < 0 {
		return fmt.Errorf("GISCC_LOGIN_RATE_LIMIT cannot be negative: %d", c.LoginRateLimit)
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
