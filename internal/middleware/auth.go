// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the admin session guard,
// request protection and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/DheerajVerma945/GISCC/internal/auth"
	"github.com/DheerajVerma945/GISCC/internal/logging"
	"github.com/DheerajVerma945/GISCC/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyAdmin       ContextKey = "admin"
	ContextKeyRequestPath ContextKey = "request_path"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// Authorizer resolves the guard state of the current visitor.
type Authorizer interface {
	Authorize(ctx context.Context, wait time.Duration) auth.Session
}

// AuthConfig configures RequireAdmin.
type AuthConfig struct {
	Guard Authorizer
	// Wait bounds how long a request blocks on a verification it started.
	Wait time.Duration
	// Waiting renders the page shown while verification is still running.
	Waiting http.Handler
	// OnExpired runs before the redirect to login after a failed verification.
	OnExpired func(w http.ResponseWriter, r *http.Request)
}

// RequireAdmin lets a request through only when the session is verified.
// Logged-out visitors are redirected to login, so are visitors whose token
// failed verification. While verification is running the waiting page is
// rendered instead of the protected content.
func RequireAdmin(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := cfg.Guard.Authorize(r.Context(), cfg.Wait)

			switch s.State {
			case auth.StateVerified:
				if s.Profile == nil {
					http.Redirect(w, r, LoginPath, http.StatusSeeOther)
					return
				}
				ctx := context.WithValue(r.Context(), ContextKeyAdmin, s.Profile)
				ctx = logging.WithAdmin(ctx, s.Profile.Email)
				next.ServeHTTP(w, r.WithContext(ctx))

			case auth.StateVerificationFailed:
				slog.InfoContext(r.Context(), "admin session expired", "reason", s.LastError)
				if cfg.OnExpired != nil {
					cfg.OnExpired(w, r)
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)

			case auth.StateVerifying, auth.StateTokenPresentUnverified:
				w.Header().Set("Cache-Control", "no-store")
				w.Header().Set("Retry-After", "1")
				if cfg.Waiting != nil {
					cfg.Waiting.ServeHTTP(w, r)
					return
				}
				http.Error(w, "Verifying session…", http.StatusAccepted)

			default:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			}
		})
	}
}

// GetAdmin retrieves the verified admin from the request context.
// Returns nil if no admin is in context.
func GetAdmin(r *http.Request) *model.Admin {
	admin, ok := r.Context().Value(ContextKeyAdmin).(*model.Admin)
	if !ok {
		return nil
	}
	return admin
}

// GetAdminEmail returns the verified admin's email, or empty string.
func GetAdminEmail(r *http.Request) string {
	if admin := GetAdmin(r); admin != nil {
		return admin.Email
	}
	return ""
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in log records.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		ctx = logging.WithPath(ctx, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
