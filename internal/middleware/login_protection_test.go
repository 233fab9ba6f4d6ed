// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminEmail = "ops@giscc.in"

func newProtection(t *testing.T, attempts int, lockout, window time.Duration) *LoginProtection {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: attempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Close)
	return lp
}

func TestLoginProtectionDefaults(t *testing.T) {
	def := DefaultLoginProtectionConfig()
	assert.Equal(t, 0.5, def.IPRateLimit)
	assert.Equal(t, 5, def.IPBurst)

	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Close()
	assert.Equal(t, def.MaxFailedAttempts, lp.maxFailedAttempts)
	assert.Equal(t, def.LockoutDuration, lp.lockoutDuration)
	assert.Equal(t, def.AttemptWindow, lp.attemptWindow)
}

func TestLoginProtectionConfigPerMinute(t *testing.T) {
	cfg := LoginProtectionConfigPerMinute(30)
	assert.Equal(t, 0.5, cfg.IPRateLimit)
	assert.Equal(t, 30, cfg.IPBurst)

	assert.Equal(t, DefaultLoginProtectionConfig(), LoginProtectionConfigPerMinute(0))
}

func TestLoginProtectionLocksAfterRepeatedFailures(t *testing.T) {
	lp := newProtection(t, 3, time.Minute, time.Minute)

	assert.Equal(t, 3, lp.GetRemainingAttempts(adminEmail))
	for i := range 2 {
		locked, _ := lp.RecordFailedAttempt(adminEmail)
		require.False(t, locked, "attempt %d", i+1)
	}
	assert.Equal(t, 1, lp.GetRemainingAttempts(adminEmail))

	locked, d := lp.RecordFailedAttempt(adminEmail)
	require.True(t, locked)
	assert.Equal(t, time.Minute, d)

	locked, remaining := lp.IsAccountLocked(adminEmail)
	assert.True(t, locked)
	assert.True(t, remaining > 0)

	other, _ := lp.IsAccountLocked("editor@giscc.in")
	assert.False(t, other)
}

func TestLoginProtectionLockExpires(t *testing.T) {
	lp := newProtection(t, 1, 50*time.Millisecond, time.Minute)

	locked, _ := lp.RecordFailedAttempt(adminEmail)
	require.True(t, locked)

	assert.Eventually(t, func() bool {
		locked, _ := lp.IsAccountLocked(adminEmail)
		return !locked
	}, time.Second, 10*time.Millisecond)
}

func TestLoginProtectionBackoffDoubles(t *testing.T) {
	lp := newProtection(t, 1, 20*time.Millisecond, time.Minute)

	_, first := lp.RecordFailedAttempt(adminEmail)
	time.Sleep(first + 10*time.Millisecond)
	_, second := lp.RecordFailedAttempt(adminEmail)

	assert.Equal(t, 2*first, second)
}

func TestLoginProtectionSuccessClearsFailures(t *testing.T) {
	lp := newProtection(t, 3, time.Minute, time.Minute)

	lp.RecordFailedAttempt(adminEmail)
	lp.RecordFailedAttempt(adminEmail)
	lp.RecordSuccessfulLogin(adminEmail)

	assert.Equal(t, 3, lp.GetRemainingAttempts(adminEmail))
}

func TestLoginProtectionWindowResets(t *testing.T) {
	lp := newProtection(t, 5, time.Minute, 50*time.Millisecond)

	lp.RecordFailedAttempt(adminEmail)
	require.Equal(t, 4, lp.GetRemainingAttempts(adminEmail))

	assert.Eventually(t, func() bool {
		return lp.GetRemainingAttempts(adminEmail) == 5
	}, time.Second, 10*time.Millisecond)
}

func TestLoginProtectionEmailIsCaseInsensitive(t *testing.T) {
	lp := newProtection(t, 2, time.Minute, time.Minute)

	lp.RecordFailedAttempt("Ops@GISCC.in")
	locked, _ := lp.RecordFailedAttempt(" ops@giscc.in ")
	assert.True(t, locked)

	locked, _ = lp.IsAccountLocked("OPS@giscc.in")
	assert.True(t, locked)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		header     map[string]string
		want       string
	}{
		{"remote addr", "192.0.2.1:12345", nil, "192.0.2.1"},
		{"forwarded for", "127.0.0.1:8080", map[string]string{"X-Forwarded-For": "10.0.0.1"}, "10.0.0.1"},
		{"forwarded chain", "127.0.0.1:8080", map[string]string{"X-Forwarded-For": " 10.0.0.1 , 10.0.0.2"}, "10.0.0.1"},
		{"real ip", "127.0.0.1:8080", map[string]string{"X-Real-IP": "10.0.0.5"}, "10.0.0.5"},
		{"forwarded wins", "127.0.0.1:8080", map[string]string{"X-Forwarded-For": "10.0.0.1", "X-Real-IP": "10.0.0.5"}, "10.0.0.1"},
		{"no port", "unix-socket", nil, "unix-socket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Close()

	h := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method, addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, LoginPath, nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "203.0.113.7:5555").Code)
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "203.0.113.7:5556").Code)

	rr := send(http.MethodPost, "203.0.113.7:5557")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), MsgTooManyAttempts)

	// The login form itself is never limited, nor are other clients.
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "203.0.113.7:5558").Code)
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "198.51.100.2:1000").Code)
}
