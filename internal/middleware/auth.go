// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys set by the middleware.
const (
	ContextKeyAdmin       ContextKey = "admin"
	ContextKeyRequestPath ContextKey = "request_path"
)

// AdminGate is the part of the session gate the middleware needs.
type AdminGate interface {
	IsAuthenticated(ctx context.Context) bool
}

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// RequireAdmin redirects to the login page unless the session holds a
// verified admin token.
func RequireAdmin(g AdminGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.IsAuthenticated(r.Context()) {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyAdmin, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadAdmin marks the request when the visitor is signed in, without
// redirecting. Public pages use it to show the admin link.
func LoadAdmin(g AdminGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.IsAuthenticated(r.Context()) {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyAdmin, true))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsAdmin reports whether RequireAdmin or LoadAdmin marked the request.
func IsAdmin(r *http.Request) bool {
	ok, _ := r.Context().Value(ContextKeyAdmin).(bool)
	return ok
}

// RequestPath stores the request path in the context for templates.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath returns the path stored by RequestPath.
func GetRequestPath(r *http.Request) string {
	path, _ := r.Context().Value(ContextKeyRequestPath).(string)
	return path
}
