// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"database/sql"
	"io/fs"
	"log/slog"
	"os"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/repository"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/web"
)

// DemoPassword is the admin password of clients created by OfflineClient.
const DemoPassword = "test-password"

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary database with migrations applied. It is
// closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "folio-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// SessionManager returns a session manager backed by memory.
func SessionManager() *scs.SessionManager {
	sm := scs.New()
	sm.Store = memstore.New()
	return sm
}

// Renderer parses the embedded site templates.
func Renderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}
	r, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		SiteName:       "Test Portfolio",
		IsDev:          true,
		Demo:           true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return r
}

// OfflineClient returns a repository client serving the bundled projects.
// Each call gets its own copy of the data.
func OfflineClient(t *testing.T) *repository.Client {
	t.Helper()

	c, err := repository.New(repository.Options{
		Offline:      true,
		DemoPassword: DemoPassword,
	})
	if err != nil {
		t.Fatalf("repository.New: %v", err)
	}
	return c
}
