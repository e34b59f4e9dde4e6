// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the cookie-backed session manager. Session
// data is persisted in SQLite so admin logins survive restarts.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Cookie names. The __Host- prefix requires Secure, so it is used only
// outside development.
const (
	CookieNameDev  = "folio_session"
	CookieNameProd = "__Host-folio_session"
)

// Lifetime matches the lifetime of tokens issued by the project service.
const Lifetime = 24 * time.Hour

// New creates a session manager backed by the sessions table in db.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	sm.Cookie.Name = CookieNameDev
	if !isDev {
		sm.Cookie.Name = CookieNameProd
	}

	return sm
}
