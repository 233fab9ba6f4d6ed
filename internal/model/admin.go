// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Admin is the resolved identity behind a bearer token.
type Admin struct {
	ID    string `json:"_id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// DisplayName returns the name, or the local part of the email address.
func (a Admin) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if at := strings.IndexByte(a.Email, '@'); at > 0 {
		return a.Email[:at]
	}
	return a.Email
}

// Credentials are exchanged for a bearer token.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the response of a successful login.
// Admin is nil when the API does not return the profile directly.
type LoginResult struct {
	Token string `json:"token"`
	Admin *Admin `json:"admin,omitempty"`
}
