// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/folio/internal/gate"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/render"
)

// Gate is the session gate as seen by the login handlers.
type Gate interface {
	IsAuthenticated(ctx context.Context) bool
	Login(ctx context.Context, password string) gate.Result
	Logout(ctx context.Context)
}

// AuthHandler handles admin sign-in and sign-out.
type AuthHandler struct {
	renderer        *render.Renderer
	gate            Gate
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(renderer *render.Renderer, g Gate, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		gate:            g,
		loginProtection: lp,
	}
}

// LoginForm handles GET /admin/login. Signed-in admins go to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.gate.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}
	renderPage(w, r, h.renderer, http.StatusOK, "admin/login", render.TemplateData{
		Title: "Admin Login",
	})
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminLogin) {
		return
	}

	clientIP := middleware.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsLocked(clientIP); locked {
			slog.Warn("login attempt while locked out", "category", model.EventCategoryAuth, "ip", clientIP)
			flashError(w, r, h.renderer, RouteAdminLogin,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	res := h.gate.Login(r.Context(), r.PostFormValue("password"))
	if !res.OK {
		h.loginFailed(w, r, clientIP, res.Error)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(clientIP)
	}
	slog.Info("admin signed in", "category", model.EventCategoryAuth, "ip", clientIP)
	flashSuccess(w, r, h.renderer, RouteAdmin, "Welcome back")
}

// loginFailed reports a failed login. Only wrong passwords count towards
// the lockout.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, clientIP, message string) {
	if message == gate.MsgInvalidPassword {
		slog.Warn("login failed: invalid password", "category", model.EventCategoryAuth, "ip", clientIP)
		if h.loginProtection != nil {
			if locked, d := h.loginProtection.RecordFailedAttempt(clientIP); locked {
				message = fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(d))
			} else if left := h.loginProtection.RemainingAttempts(clientIP); left > 0 && left <= 3 {
				message = fmt.Sprintf("%s %d attempts remaining.", message, left)
			}
		}
	}
	flashError(w, r, h.renderer, RouteAdminLogin, message)
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(r.Context())
	slog.Info("admin signed out", "category", model.EventCategoryAuth)
	flashSuccess(w, r, h.renderer, RouteRoot, "You have been signed out")
}

// formatDuration renders a lockout duration as "15 minutes" or "1 hour".
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		return plural(int(d.Round(time.Hour)/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d.Round(time.Minute)/time.Minute), "minute")
	}
	return plural(max(int(d.Round(time.Second)/time.Second), 1), "second")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
