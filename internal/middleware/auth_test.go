// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DheerajVerma945/GISCC/internal/auth"
	"github.com/DheerajVerma945/GISCC/internal/model"
)

type fixedAuthorizer struct {
	session auth.Session
	wait    time.Duration
}

func (f *fixedAuthorizer) Authorize(_ context.Context, wait time.Duration) auth.Session {
	f.wait = wait
	return f.session
}

func runRequireAdmin(t *testing.T, s auth.Session) (*httptest.ResponseRecorder, *model.Admin, bool, bool) {
	t.Helper()

	var (
		seen     *model.Admin
		reached  bool
		expired  bool
		authz    = &fixedAuthorizer{session: s}
		waitPage = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("Verifying session…"))
		})
	)

	mw := RequireAdmin(AuthConfig{
		Guard:     authz,
		Wait:      time.Second,
		Waiting:   waitPage,
		OnExpired: func(http.ResponseWriter, *http.Request) { expired = true },
	})
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seen = GetAdmin(r)
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/events", nil))

	if authz.wait != time.Second {
		t.Errorf("Authorize wait = %v, want 1s", authz.wait)
	}
	return rr, seen, reached, expired
}

func TestRequireAdmin_Verified(t *testing.T) {
	admin := &model.Admin{Email: "ops@giscc.in"}
	rr, seen, reached, _ := runRequireAdmin(t, auth.Session{State: auth.StateVerified, Token: "t", Profile: admin})

	if !reached {
		t.Fatal("protected handler not reached")
	}
	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", rr.Code)
	}
	if seen != admin {
		t.Errorf("GetAdmin() = %v, want %v", seen, admin)
	}
}

func TestRequireAdmin_LoggedOutRedirects(t *testing.T) {
	rr, _, reached, expired := runRequireAdmin(t, auth.Session{State: auth.StateLoggedOut})

	if reached {
		t.Error("protected handler reached while logged out")
	}
	if expired {
		t.Error("OnExpired called for a plain logged-out visitor")
	}
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != LoginPath {
		t.Errorf("got %d %q, want redirect to %s", rr.Code, rr.Header().Get("Location"), LoginPath)
	}
}

func TestRequireAdmin_FailedRedirectsWithNotice(t *testing.T) {
	rr, _, reached, expired := runRequireAdmin(t, auth.Session{State: auth.StateVerificationFailed, LastError: auth.MsgSessionExpired})

	if reached {
		t.Error("protected handler reached after failed verification")
	}
	if !expired {
		t.Error("OnExpired not called")
	}
	if rr.Header().Get("Location") != LoginPath {
		t.Errorf("Location = %q, want %s", rr.Header().Get("Location"), LoginPath)
	}
}

func TestRequireAdmin_VerifyingRendersWaitingPage(t *testing.T) {
	for _, st := range []auth.State{auth.StateVerifying, auth.StateTokenPresentUnverified} {
		t.Run(st.String(), func(t *testing.T) {
			rr, _, reached, _ := runRequireAdmin(t, auth.Session{State: st, Token: "t", VerificationInFlight: true})

			if reached {
				t.Error("protected handler reached while verifying")
			}
			if rr.Body.String() != "Verifying session…" {
				t.Errorf("Body = %q", rr.Body.String())
			}
			if rr.Header().Get("Cache-Control") != "no-store" {
				t.Errorf("Cache-Control = %q, want no-store", rr.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestRequireAdmin_VerifiedWithoutProfile(t *testing.T) {
	rr, _, reached, _ := runRequireAdmin(t, auth.Session{State: auth.StateVerified, Token: "t"})
	if reached {
		t.Error("protected handler reached without a profile")
	}
	if rr.Code != http.StatusSeeOther {
		t.Errorf("Status = %d, want 303", rr.Code)
	}
}

func TestGetAdmin_NoAdmin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetAdmin(req) != nil {
		t.Error("GetAdmin() should be nil")
	}
	if GetAdminEmail(req) != "" {
		t.Error("GetAdminEmail() should be empty")
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	h := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events?page=2", nil))

	if got != "/events" {
		t.Errorf("GetRequestPath() = %q, want /events", got)
	}
	if GetRequestPath(context.Background()) != "" {
		t.Error("GetRequestPath() on empty context should be empty")
	}
}
