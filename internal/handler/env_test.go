// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/gate"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/repository"
	"github.com/olegiv/folio/internal/scheduler"
	"github.com/olegiv/folio/internal/seo"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/testutil"
	"github.com/olegiv/folio/internal/version"
	"github.com/olegiv/folio/web"
)

// testEnv is a running site backed by the bundled projects.
type testEnv struct {
	server   *httptest.Server
	http     *http.Client
	db       *sql.DB
	sm       *scs.SessionManager
	renderer *render.Renderer
	projects *repository.Client
	gate     *gate.Gate
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithProtection(t, middleware.DefaultLoginProtectionConfig())
}

func newTestEnvWithProtection(t *testing.T, lpCfg middleware.LoginProtectionConfig) *testEnv {
	t.Helper()

	env := &testEnv{
		db:       testutil.TestDB(t),
		sm:       testutil.SessionManager(),
		projects: testutil.OfflineClient(t),
	}
	env.renderer = testutil.Renderer(t, env.sm)
	env.gate = gate.New(env.projects, gate.NewSessionStore(env.sm))

	jobs, err := scheduler.New(scheduler.Config{
		RefreshSchedule: "@every 1h",
		PruneSchedule:   "@daily",
		EventRetention:  time.Hour,
	}, env.projects, store.New(env.db), testutil.TestLogger())
	require.NoError(t, err)

	lp := middleware.NewLoginProtection(lpCfg)
	t.Cleanup(lp.Stop)

	docs, err := fs.Sub(web.Docs, "docs")
	require.NoError(t, err)

	site := &seo.SiteConfig{SiteName: "Test Portfolio", SiteURL: "https://example.com"}
	frontend := NewFrontendHandler(env.renderer, env.projects, site)
	admin := NewAdminHandler(env.renderer, env.projects, env.gate, jobs)
	auth := NewAuthHandler(env.renderer, env.gate, lp)
	events := NewEventsHandler(env.db, env.renderer)
	guide := NewGuideHandler(env.renderer, docs)
	health := NewHealthHandler(env.db, env.projects, version.Info{Version: "v0.0.0-test"})
	seoHandler := NewSEOHandler(env.projects, site.SiteURL, false)

	r := chi.NewRouter()
	r.Get("/health/live", health.Liveness)
	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)

	r.Group(func(r chi.Router) {
		r.Use(env.sm.LoadAndSave)
		r.Use(middleware.LoadAdmin(env.gate))

		r.Get("/health", health.Health)
		r.Get(RouteRoot, frontend.Home)
		r.Get(RouteProjects, frontend.Projects)
		r.Get(RouteProjects+"/{id}", frontend.Project)
		r.Get("/favorites", frontend.Favorites)

		r.Get(RouteAdminLogin, auth.LoginForm)
		r.Post(RouteAdminLogin, auth.Login)
		r.Post("/admin/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(env.gate))
			r.Get(RouteAdmin, admin.Dashboard)
			r.Post("/admin/refresh", admin.Refresh)
			r.Get("/admin/projects/new", admin.New)
			r.Post("/admin/projects", admin.Create)
			r.Get("/admin/projects/{id}", admin.Edit)
			r.Post("/admin/projects/{id}", admin.Update)
			r.Post("/admin/projects/{id}/delete", admin.Delete)
			r.Get("/admin/events", events.List)
			r.Get("/admin/guide", guide.Show)
			r.Get("/admin/guide/{slug}", guide.Show)
		})

		r.NotFound(frontend.NotFound)
	})

	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	env.http = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return env
}

// get performs a GET without following redirects and returns the status,
// Location header and body.
func (e *testEnv) get(t *testing.T, path string) (int, string, string) {
	t.Helper()
	resp, err := e.http.Get(e.server.URL + path)
	require.NoError(t, err)
	return readResponse(t, resp)
}

// post submits form values without following redirects.
func (e *testEnv) post(t *testing.T, path string, form url.Values) (int, string, string) {
	t.Helper()
	resp, err := e.http.Post(e.server.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return readResponse(t, resp)
}

// login signs in with the demo password.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	status, location, _ := e.post(t, RouteAdminLogin, url.Values{"password": {testutil.DemoPassword}})
	require.Equal(t, http.StatusSeeOther, status)
	require.Equal(t, RouteAdmin, location)
}

func readResponse(t *testing.T, resp *http.Response) (int, string, string) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Location"), string(body)
}
