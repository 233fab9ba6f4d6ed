// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/DheerajVerma945/GISCC/internal/apiclient"
	"github.com/DheerajVerma945/GISCC/internal/auth"
	"github.com/DheerajVerma945/GISCC/internal/middleware"
	"github.com/DheerajVerma945/GISCC/internal/model"
	"github.com/DheerajVerma945/GISCC/internal/render"
)

// SessionGuard is the part of the session guard the login pages use.
type SessionGuard interface {
	Snapshot(ctx context.Context) auth.Session
	Login(ctx context.Context, creds model.Credentials) (auth.Session, error)
	Logout(ctx context.Context) error
}

// AuthHandler handles authentication routes.
type AuthHandler struct {
	renderer        *render.Renderer
	guard           SessionGuard
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(renderer *render.Renderer, guard SessionGuard, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		renderer:        renderer,
		guard:           guard,
		loginProtection: lp,
		logger:          logger,
	}
}

// LoginData holds data for the login page.
type LoginData struct {
	Email string
}

// LoginForm renders the login page.
// Visitors that already hold a token are sent to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if s := h.guard.Snapshot(r.Context()); s.HasToken() && s.State != auth.StateVerificationFailed {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, "", "")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email, message string) {
	data := render.TemplateData{
		Title: "Admin Login",
		Data:  LoginData{Email: email},
	}
	if message != "" {
		data.Flash, data.FlashType = message, render.FlashError
	}
	renderPage(w, r, h.renderer, status, "auth/login", data)
}

// Login handles the login form submission. A rejected login leaves the
// session untouched and re-renders the form with the email kept.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, email, msgCredentials)
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logger.WarnContext(r.Context(), "login attempt on locked account", "email", email)
			h.renderLogin(w, r, http.StatusTooManyRequests, email,
				"Too many failed attempts. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	_, err := h.guard.Login(r.Context(), model.Credentials{Email: email, Password: password})
	if err != nil {
		h.loginFailed(w, r, email, err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	h.logger.InfoContext(r.Context(), "admin logged in", "email", email)
	flashSuccess(w, r, h.renderer, redirectAdmin, msgWelcomeBack)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email string, err error) {
	msg := auth.MsgLoginFailed
	var le *auth.LoginError
	if errors.As(err, &le) {
		msg = le.Message
	}

	status := http.StatusUnauthorized
	if apiclient.IsNetwork(err) {
		h.logger.ErrorContext(r.Context(), "login request failed", "error", err)
		h.renderLogin(w, r, http.StatusBadGateway, email, msg)
		return
	}
	h.logger.InfoContext(r.Context(), "login rejected", "email", email, "error", err)

	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			h.renderLogin(w, r, http.StatusTooManyRequests, email,
				"Too many failed attempts. Try again in "+formatDuration(lockDuration)+".")
			return
		}
		if remaining := h.loginProtection.GetRemainingAttempts(email); remaining <= 2 && remaining > 0 {
			msg = fmt.Sprintf("%s (%d attempts remaining)", msg, remaining)
		}
	}
	h.renderLogin(w, r, status, email, msg)
}

// Logout clears the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.guard.Logout(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "logout error", "error", err)
	}
	h.logger.InfoContext(r.Context(), "admin logged out")
	flashSuccess(w, r, h.renderer, redirectLogin, msgLoggedOut)
}

// VerifyingData holds data for the verification waiting page.
type VerifyingData struct {
	RetryURL string
}

// Verifying renders the page shown while the session is being verified.
// It reloads itself until verification has finished.
func (h *AuthHandler) Verifying(w http.ResponseWriter, r *http.Request) {
	retry := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		retry = redirectAdmin
	}
	renderPage(w, r, h.renderer, http.StatusOK, "auth/verifying", render.TemplateData{
		Title: "Verifying session",
		Data:  VerifyingData{RetryURL: retry},
	})
}

// SessionExpired records the expiry notice shown on the login page.
func (h *AuthHandler) SessionExpired(_ http.ResponseWriter, r *http.Request) {
	h.renderer.SetFlash(r, auth.MsgSessionExpired, render.FlashError)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
