// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "github.com/DheerajVerma945/GISCC/internal/model"

// State is a session guard state.
type State int

const (
	StateLoggedOut State = iota
	StateTokenPresentUnverified
	StateVerifying
	StateVerified
	StateVerificationFailed
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateTokenPresentUnverified:
		return "token_present_unverified"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	case StateVerificationFailed:
		return "verification_failed"
	default:
		return "unknown"
	}
}

// Session is a read-only view of the guard state for one visitor.
type Session struct {
	State                State
	Token                string
	Profile              *model.Admin
	VerificationInFlight bool
	LastError            string
}

// Allowed reports whether protected content may render.
func (s Session) Allowed() bool {
	return s.State == StateVerified && s.Profile != nil
}

// HasToken reports whether a token is present.
func (s Session) HasToken() bool {
	return s.Token != ""
}
