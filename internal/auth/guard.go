// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth implements the session guard: it owns the admin bearer
// token and the resolved admin profile, decides whether protected views
// may render, and keeps the profile in sync with the token through the
// remote verify endpoint.
package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/cache"
	"github.com/DheerajVerma945/GISCC/internal/model"
)

// User-facing messages.
const (
	MsgSessionExpired = "Session expired"
	MsgLoginFailed    = "Login failed"
)

// Sentinel errors.
var (
	ErrNoToken        = errors.New("auth: no token")
	ErrSessionExpired = errors.New("auth: session expired")
)

// API is the part of the remote API the guard depends on.
type API interface {
	Login(ctx context.Context, creds model.Credentials) (*model.LoginResult, error)
	Verify(ctx context.Context) (*model.Admin, error)
}

// TokenStore persists the bearer token. Only the guard writes it.
type TokenStore interface {
	Token(ctx context.Context) string
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Options tunes a Guard.
type Options struct {
	// ProfileTTL is how long a verified profile stays cached without use.
	// Each guarded request past half of it extends the entry, so an active
	// session is not verified again. Servers set it to the session lifetime.
	ProfileTTL time.Duration
	// FailureTTL is how long a failed verification is remembered.
	FailureTTL time.Duration
	// VerifyTimeout bounds a single verify call.
	VerifyTimeout time.Duration
	Logger        *slog.Logger
}

// DefaultOptions returns the defaults used by the server.
func DefaultOptions() Options {
	return Options{
		ProfileTTL:    24 * time.Hour,
		FailureTTL:    10 * time.Minute,
		VerifyTimeout: 15 * time.Second,
	}
}

type profileEntry struct {
	Admin    model.Admin `json:"admin"`
	StoredAt time.Time   `json:"stored_at"`
}

type failure struct {
	Message string `json:"message"`
	Cause   string `json:"cause"`
}

// Guard is the single owner of session state.
type Guard struct {
	api    API
	tokens TokenStore
	opts   Options
	logger *slog.Logger

	mem      cache.Cacher
	profiles *cache.TypedCache[profileEntry]
	failures *cache.TypedCache[failure]

	group   singleflight.Group
	pending sync.Map
}

// NewGuard creates a guard. Profiles are kept in process memory only, so
// a persisted token is unverified again after a restart.
func NewGuard(api API, tokens TokenStore, opts Options) *Guard {
	def := DefaultOptions()
	if opts.ProfileTTL <= 0 {
		opts.ProfileTTL = def.ProfileTTL
	}
	if opts.FailureTTL <= 0 {
		opts.FailureTTL = def.FailureTTL
	}
	if opts.VerifyTimeout <= 0 {
		opts.VerifyTimeout = def.VerifyTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mem := cache.NewMemory(opts.ProfileTTL)
	return &Guard{
		api:      api,
		tokens:   tokens,
		opts:     opts,
		logger:   logger,
		mem:      mem,
		profiles: cache.NewTypedCache[profileEntry](mem, "profile:", opts.ProfileTTL),
		failures: cache.NewTypedCache[failure](mem, "failure:", opts.FailureTTL),
	}
}

// Close releases the in-memory caches.
func (g *Guard) Close() error {
	return g.mem.Close()
}

func fingerprint(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

func (g *Guard) storeProfile(ctx context.Context, fp string, admin *model.Admin) error {
	return g.profiles.Set(ctx, fp, &profileEntry{Admin: *admin, StoredAt: time.Now()})
}

// Snapshot reports the current session without side effects.
func (g *Guard) Snapshot(ctx context.Context) Session {
	s, _ := g.snapshot(ctx)
	return s
}

func (g *Guard) snapshot(ctx context.Context) (Session, *profileEntry) {
	tok := g.tokens.Token(ctx)
	if tok == "" {
		return Session{State: StateLoggedOut}, nil
	}
	fp := fingerprint(tok)
	if e, ok := g.profiles.Get(ctx, fp); ok {
		return Session{State: StateVerified, Token: tok, Profile: &e.Admin}, e
	}
	if f, ok := g.failures.Get(ctx, fp); ok {
		return Session{State: StateVerificationFailed, Token: tok, LastError: f.Message}, nil
	}
	if _, ok := g.pending.Load(fp); ok {
		return Session{State: StateVerifying, Token: tok, VerificationInFlight: true}, nil
	}
	return Session{State: StateTokenPresentUnverified, Token: tok}, nil
}

// Check classifies the session and starts verification when a token is
// present without a cached profile. A recorded verification failure
// clears the persisted token.
func (g *Guard) Check(ctx context.Context) Session {
	s, _ := g.check(ctx)
	return s
}

func (g *Guard) check(ctx context.Context) (Session, <-chan singleflight.Result) {
	s, entry := g.snapshot(ctx)
	switch s.State {
	case StateVerified:
		if time.Since(entry.StoredAt) > g.opts.ProfileTTL/2 {
			if err := g.storeProfile(ctx, fingerprint(s.Token), &entry.Admin); err != nil {
				g.logger.Error("failed to extend admin profile", "error", err)
			}
		}
		return s, nil
	case StateVerificationFailed:
		if err := g.tokens.ClearToken(ctx); err != nil {
			g.logger.Error("failed to clear token after verification failure", "error", err)
		}
		s.Token = ""
		return s, nil
	case StateTokenPresentUnverified, StateVerifying:
		tok := s.Token
		fp := fingerprint(tok)
		ch := g.group.DoChan(fp, func() (any, error) {
			return g.verify(ctx, tok, fp)
		})
		s.State = StateVerifying
		s.VerificationInFlight = true
		return s, ch
	}
	return s, nil
}

// Authorize is Check followed by up to wait for a started verification to
// finish. The returned session is Verified, Verifying (still running after
// wait), LoggedOut or VerificationFailed.
func (g *Guard) Authorize(ctx context.Context, wait time.Duration) Session {
	s, done := g.check(ctx)
	if s.State != StateVerifying || done == nil || wait <= 0 {
		return s
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		return s
	case <-ctx.Done():
		return s
	}

	s, _ = g.check(ctx)
	return s
}

func (g *Guard) verify(ctx context.Context, tok, fp string) (*model.Admin, error) {
	g.pending.Store(fp, struct{}{})
	defer g.pending.Delete(fp)

	// The initiating request may finish before the API answers.
	vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.opts.VerifyTimeout)
	defer cancel()

	admin, err := g.api.Verify(apiclient.WithToken(vctx, tok))
	if err != nil {
		g.logger.Warn("session verification failed", "error", err)
		_ = g.profiles.Delete(vctx, fp)
		if ferr := g.failures.Set(vctx, fp, &failure{Message: MsgSessionExpired, Cause: err.Error()}); ferr != nil {
			g.logger.Error("failed to record verification failure", "error", ferr)
		}
		return nil, err
	}

	if err := g.storeProfile(vctx, fp, admin); err != nil {
		g.logger.Error("failed to cache admin profile", "error", err)
		return nil, err
	}
	g.logger.Info("session verified", "admin", admin.Email)
	return admin, nil
}

// LoginError is returned when the API rejects a login.
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

func loginMessage(err error) string {
	var he *apiclient.HTTPError
	if errors.As(err, &he) && he.Status != 0 && he.Message != "" && he.Message != apiclient.FallbackMessage {
		return he.Message
	}
	return MsgLoginFailed
}

// Login exchanges credentials for a token and persists it. When the API
// returns the profile directly the session is Verified at once; otherwise
// it is left unverified for the next Check to verify. On failure the
// session is unchanged.
func (g *Guard) Login(ctx context.Context, creds model.Credentials) (Session, error) {
	res, err := g.api.Login(ctx, creds)
	if err != nil {
		return g.Snapshot(ctx), &LoginError{Message: loginMessage(err), Err: err}
	}

	fp := fingerprint(res.Token)
	_ = g.failures.Delete(ctx, fp)

	if err := g.tokens.SetToken(ctx, res.Token); err != nil {
		return g.Snapshot(ctx), &LoginError{Message: MsgLoginFailed, Err: err}
	}

	if res.Admin != nil {
		if err := g.storeProfile(ctx, fp, res.Admin); err != nil {
			g.logger.Error("failed to cache admin profile", "error", err)
		}
	}
	return g.Snapshot(ctx), nil
}

// Logout clears token and profile unconditionally.
func (g *Guard) Logout(ctx context.Context) error {
	if tok := g.tokens.Token(ctx); tok != "" {
		_ = g.profiles.Delete(ctx, fingerprint(tok))
	}
	return g.tokens.ClearToken(ctx)
}

// Profile waits up to wait for the session to resolve and returns the
// admin profile, ErrNoToken or ErrSessionExpired.
func (g *Guard) Profile(ctx context.Context, wait time.Duration) (*model.Admin, error) {
	s := g.Authorize(ctx, wait)
	switch s.State {
	case StateVerified:
		return s.Profile, nil
	case StateLoggedOut:
		return nil, ErrNoToken
	case StateVerificationFailed:
		return nil, ErrSessionExpired
	default:
		return nil, context.DeadlineExceeded
	}
}
