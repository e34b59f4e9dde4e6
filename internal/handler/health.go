// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/repository"
	"github.com/olegiv/folio/internal/version"
)

// Health statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 3 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	projects  ProjectReader
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, projects ProjectReader, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		projects:  projects,
		version:   info,
		startTime: time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for visitors.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed health response shown to a signed-in admin.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	GoVersion string           `json:"go_version"`
	Checks    map[string]Check `json:"checks"`
}

// Check is the result of one dependency check.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health. The local database is required; a failing
// project service only degrades the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	projectsCheck := h.checkProjects(r.Context())

	status, code := statusHealthy, http.StatusOK
	switch {
	case dbCheck.Status != statusHealthy:
		status, code = statusUnhealthy, http.StatusServiceUnavailable
	case projectsCheck.Status != statusHealthy:
		status = statusDegraded
	}

	if !middleware.IsAdmin(r) {
		writeJSON(w, code, HealthStatusPublic{Status: status})
		return
	}

	writeJSON(w, code, HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.String(),
		GoVersion: runtime.Version(),
		Checks: map[string]Check{
			"database": dbCheck,
			"projects": projectsCheck,
		},
	})
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Connected", Latency: latency.String()}
}

func (h *HealthHandler) checkProjects(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	_, err := h.projects.List(ctx, repository.VisibilityPublic)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusUnhealthy, Message: repository.Message(err), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Latency: latency.String()}
}
