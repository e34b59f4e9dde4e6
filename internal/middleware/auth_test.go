// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubGate bool

func (g stubGate) IsAuthenticated(context.Context) bool { return bool(g) }

func TestRequireAdmin(t *testing.T) {
	var sawAdmin bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAdmin = IsAdmin(r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("redirects when signed out", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAdmin(stubGate(false))(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
		}
		if loc := rec.Header().Get("Location"); loc != LoginPath {
			t.Errorf("Location = %q, want %q", loc, LoginPath)
		}
	})

	t.Run("passes when signed in", func(t *testing.T) {
		sawAdmin = false
		rec := httptest.NewRecorder()
		RequireAdmin(stubGate(true))(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !sawAdmin {
			t.Error("IsAdmin() should be true inside RequireAdmin")
		}
	})
}

func TestLoadAdmin(t *testing.T) {
	for _, signedIn := range []bool{false, true} {
		var got bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = IsAdmin(r)
		})
		rec := httptest.NewRecorder()
		LoadAdmin(stubGate(signedIn))(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if got != signedIn {
			t.Errorf("IsAdmin() = %v, want %v", got, signedIn)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r)
	})
	RequestPath(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/3", nil))

	if got != "/projects/3" {
		t.Errorf("GetRequestPath() = %q, want %q", got, "/projects/3")
	}
	if GetRequestPath(httptest.NewRequest(http.MethodGet, "/", nil)) != "" {
		t.Error("GetRequestPath() without middleware should be empty")
	}
}
