// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, "http://localhost:8080", true)

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}

	want := map[string]bool{"localhost:8080": true, "127.0.0.1:8080": true}
	for _, origin := range cfg.TrustedOrigins {
		if !want[origin] {
			t.Errorf("unexpected TrustedOrigin: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, "https://folio.example.com", false)

	if len(cfg.TrustedOrigins) != 1 || cfg.TrustedOrigins[0] != "folio.example.com" {
		t.Errorf("TrustedOrigins = %v, want [folio.example.com]", cfg.TrustedOrigins)
	}
}

// The csrf library expects host:port values, not full URLs.
func TestTrustedOriginsFormat(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, "http://localhost:8080", true)

	for _, origin := range cfg.TrustedOrigins {
		if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			t.Errorf("TrustedOrigin %q should be host:port format, not full URL", origin)
		}
	}
}

func TestCSRF_Requests(t *testing.T) {
	called := false
	cfg := DefaultCSRFConfig(testAuthKey, "https://folio.example.com", false)
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		http.Error(w, "Custom CSRF Error", http.StatusForbidden)
	})
	handler := CSRF(cfg)(okHandler())

	tests := []struct {
		name      string
		method    string
		fetchSite string
		want      int
	}{
		{"safe method cross-site", http.MethodGet, "cross-site", http.StatusOK},
		{"same-origin post", http.MethodPost, "same-origin", http.StatusOK},
		{"cross-site post", http.MethodPost, "cross-site", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(tt.method, "https://folio.example.com/admin/projects", nil)
			req.Header.Set("Sec-Fetch-Site", tt.fetchSite)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if called != (tt.want == http.StatusForbidden) {
				t.Errorf("custom error handler called = %v", called)
			}
		})
	}
}
