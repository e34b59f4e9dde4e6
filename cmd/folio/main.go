// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/config"
	"github.com/olegiv/folio/internal/gate"
	"github.com/olegiv/folio/internal/handler"
	"github.com/olegiv/folio/internal/logging"
	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/repository"
	"github.com/olegiv/folio/internal/scheduler"
	"github.com/olegiv/folio/internal/seo"
	"github.com/olegiv/folio/internal/session"
	"github.com/olegiv/folio/internal/store"
	"github.com/olegiv/folio/internal/version"
	"github.com/olegiv/folio/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	siteName = "Portfolio"

	// pruneSchedule runs the event log cleanup once a day.
	pruneSchedule = "@daily"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "folio - portfolio site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_API_BASE_URL      Project service URL (default: http://127.0.0.1:5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_FALLBACK          propagate|fallback (default: propagate)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_OFFLINE           Serve bundled projects without a service (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_DB_PATH           SQLite database path (default: ./data/folio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_REDIS_URL         Redis URL for a shared project cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_REFRESH_SCHEDULE  Cron schedule for cache refresh, empty disables it\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("database ready", "event_log", "warn")

	sessionManager := session.New(db, cfg.IsDevelopment())

	projectCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
	})
	defer func() { _ = projectCache.Close() }()

	policy, err := repository.ParsePolicy(cfg.Fallback)
	if err != nil {
		return fmt.Errorf("parsing fallback policy: %w", err)
	}

	projects, err := repository.New(repository.Options{
		BaseURL:      cfg.APIBaseURL,
		Timeout:      cfg.RequestTimeout,
		Cache:        projectCache,
		CacheTTL:     cfg.CacheTTL,
		Policy:       policy,
		Offline:      cfg.Offline,
		DemoPassword: cfg.DemoPassword,
	})
	if err != nil {
		return fmt.Errorf("creating project client: %w", err)
	}
	if projects.Offline() {
		slog.Warn("running offline, serving bundled projects")
	} else {
		slog.Info("project service configured", "url", cfg.APIBaseURL, "policy", policy)
	}

	adminGate := gate.New(projects, gate.NewSessionStore(sessionManager))

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		SiteName:       siteName,
		IsDev:          cfg.IsDevelopment(),
		Demo:           projects.Offline(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	docsFS, err := fs.Sub(web.Docs, "docs")
	if err != nil {
		return fmt.Errorf("getting docs fs: %w", err)
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	jobs, err := scheduler.New(scheduler.Config{
		RefreshSchedule: cfg.RefreshSchedule,
		PruneSchedule:   pruneSchedule,
		EventRetention:  cfg.EventRetention,
	}, projects, store.New(db), logger)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	site := &seo.SiteConfig{
		SiteName: siteName,
		SiteURL:  cfg.SiteURL,
		NoIndex:  cfg.Offline,
	}

	frontendHandler := handler.NewFrontendHandler(renderer, projects, site)
	adminHandler := handler.NewAdminHandler(renderer, projects, adminGate, jobs)
	authHandler := handler.NewAuthHandler(renderer, adminGate, loginProtection)
	eventsHandler := handler.NewEventsHandler(db, renderer)
	guideHandler := handler.NewGuideHandler(renderer, docsFS)
	healthHandler := handler.NewHealthHandler(db, projects, info)
	seoHandler := handler.NewSEOHandler(projects, cfg.SiteURL, site.NoIndex)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)

	// Health, crawlers and static assets need no session
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)
	r.Handle("/static/*", middleware.StaticCache(31536000)(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))),
	))

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.SiteURL, cfg.IsDevelopment())))
		r.Use(middleware.LoadAdmin(adminGate))

		r.Get("/health", healthHandler.Health)

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteProjects, frontendHandler.Projects)
		r.Get(handler.RouteProjects+"/{id}", frontendHandler.Project)
		r.Get("/favorites", frontendHandler.Favorites)

		r.Get(handler.RouteAdminLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteAdminLogin, authHandler.Login)
		r.Post("/admin/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(adminGate))

			r.Get(handler.RouteAdmin, adminHandler.Dashboard)
			r.Post("/admin/refresh", adminHandler.Refresh)
			r.Get("/admin/projects/new", adminHandler.New)
			r.Post("/admin/projects", adminHandler.Create)
			r.Get("/admin/projects/{id}", adminHandler.Edit)
			r.Post("/admin/projects/{id}", adminHandler.Update)
			r.Post("/admin/projects/{id}/delete", adminHandler.Delete)
			r.Get("/admin/events", eventsHandler.List)
			r.Get("/admin/guide", guideHandler.Show)
			r.Get("/admin/guide/{slug}", guideHandler.Show)
		})

		r.NotFound(frontendHandler.NotFound)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
