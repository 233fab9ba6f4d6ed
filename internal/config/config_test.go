// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	os.Clearenv()
	setEnv(t, "GISCC_SESSION_SECRET", testSecret)
	setEnv(t, "GISCC_API_BASE_URL", "https://api.example.com/api")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/giscc.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/giscc.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want localhost:8080", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.APITimeout != 15*time.Second {
		t.Errorf("APITimeout = %v, want 15s", cfg.APITimeout)
	}
	if cfg.VerifyWait != 2*time.Second {
		t.Errorf("VerifyWait = %v, want 2s", cfg.VerifyWait)
	}
	if cfg.SessionLifetime != 24*time.Hour {
		t.Errorf("SessionLifetime = %v, want 24h", cfg.SessionLifetime)
	}
	if cfg.UseRedis() {
		t.Error("UseRedis() = true without GISCC_REDIS_URL")
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", cfg.SlogLevel())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequired(t)
	setEnv(t, "GISCC_SERVER_HOST", "0.0.0.0")
	setEnv(t, "GISCC_SERVER_PORT", "3000")
	setEnv(t, "GISCC_ENV", "production")
	setEnv(t, "GISCC_LOG_LEVEL", "debug")
	setEnv(t, "GISCC_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "GISCC_VERIFY_WAIT", "500ms")
	setEnv(t, "GISCC_REFRESH_SCHEDULE", "OFF")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if !cfg.UseRedis() {
		t.Error("UseRedis() = false")
	}
	if cfg.VerifyWait != 500*time.Millisecond {
		t.Errorf("VerifyWait = %v", cfg.VerifyWait)
	}
	if cfg.RefreshEnabled() {
		t.Errorf("RefreshEnabled() = true for schedule %q", cfg.RefreshSchedule)
	}
}

func TestLoad_RefreshSchedule(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		wantEnabled bool
		wantSpec    string
	}{
		{"unset uses default", "", true, "*/5 * * * *"},
		{"custom", "@hourly", true, "@hourly"},
		{"off", "off", false, "off"},
		{"off any case", " Off ", false, " Off "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			if tt.value == "" {
				_ = os.Unsetenv("GISCC_REFRESH_SCHEDULE")
			} else {
				setEnv(t, "GISCC_REFRESH_SCHEDULE", tt.value)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.RefreshEnabled() != tt.wantEnabled {
				t.Errorf("RefreshEnabled() = %v, want %v", cfg.RefreshEnabled(), tt.wantEnabled)
			}
			if cfg.RefreshSchedule != tt.wantSpec {
				t.Errorf("RefreshSchedule = %q, want %q", cfg.RefreshSchedule, tt.wantSpec)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing secret", map[string]string{"GISCC_SESSION_SECRET": ""}, "GISCC_SESSION_SECRET"},
		{"short secret", map[string]string{"GISCC_SESSION_SECRET": "short"}, "at least 32 bytes"},
		{"weak secret", map[string]string{"GISCC_SESSION_SECRET": "change-me-to-32-byte-secret-key!"}, "known default"},
		{"missing api url", map[string]string{"GISCC_API_BASE_URL": ""}, "GISCC_API_BASE_URL"},
		{"relative api url", map[string]string{"GISCC_API_BASE_URL": "/api"}, "absolute http(s) URL"},
		{"bad port", map[string]string{"GISCC_SERVER_PORT": "70000"}, "out of range"},
		{"bad schedule", map[string]string{"GISCC_REFRESH_SCHEDULE": "every day"}, "cron spec"},
		{"bad duration", map[string]string{"GISCC_VERIFY_WAIT": "soon"}, "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				if v == "" {
					_ = os.Unsetenv(k)
					continue
				}
				setEnv(t, k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatalf("Load() error = nil, want %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"aaaaaaaaaaaaaaaAAAAAAAAAAAAAAAAA", false},
		{"aaaaaaaaaaAAAAAAAAAA111111111111", true},
		{testSecret, true},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
