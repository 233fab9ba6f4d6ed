// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures visitor sessions. The session holds the admin
// bearer token and flash messages.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/redis/go-redis/v9"
)

// CookieName is the session cookie name.
const CookieName = "giscc_session"

// Options configures the session manager.
type Options struct {
	// DB backs sessions with SQLite. Ignored when Redis is set.
	DB *sql.DB
	// Redis backs sessions with Redis.
	Redis    redis.UniversalClient
	Lifetime time.Duration
	IsDev    bool
}

// New creates a session manager. Expired SQLite rows are purged by the
// scheduler, so the store's own cleanup goroutine is disabled.
func New(opts Options) *scs.SessionManager {
	sm := scs.New()

	switch {
	case opts.Redis != nil:
		sm.Store = NewRedisStore(opts.Redis, "")
	case opts.DB != nil:
		sm.Store = sqlite3store.NewWithCleanupInterval(opts.DB, 0)
	}

	sm.Lifetime = 24 * time.Hour
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !opts.IsDev

	return sm
}

// TokenKey is the session key holding the admin bearer token.
const TokenKey = "admin_token"

// Tokens stores the admin token in the visitor's session.
type Tokens struct {
	sm *scs.SessionManager
}

// NewTokens creates a token store over sm.
func NewTokens(sm *scs.SessionManager) *Tokens {
	return &Tokens{sm: sm}
}

// Token returns the stored token. ctx must come from a request wrapped
// by the session manager's LoadAndSave.
func (t *Tokens) Token(ctx context.Context) string {
	return t.sm.GetString(ctx, TokenKey)
}

// SetToken stores the token under a fresh session id.
func (t *Tokens) SetToken(ctx context.Context, token string) error {
	if err := t.sm.RenewToken(ctx); err != nil {
		return err
	}
	t.sm.Put(ctx, TokenKey, token)
	return nil
}

// ClearToken removes the token and rotates the session id.
func (t *Tokens) ClearToken(ctx context.Context) error {
	if !t.sm.Exists(ctx, TokenKey) {
		return nil
	}
	t.sm.Remove(ctx, TokenKey)
	return t.sm.RenewToken(ctx)
}
