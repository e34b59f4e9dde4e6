// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/repository"
	"github.com/olegiv/folio/internal/seo"
)

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	projects ProjectReader
	siteURL  string
	noIndex  bool
}

// NewSEOHandler creates a new SEOHandler. With noIndex set robots.txt
// disallows everything.
func NewSEOHandler(projects ProjectReader, siteURL string, noIndex bool) *SEOHandler {
	return &SEOHandler{
		projects: projects,
		siteURL:  siteURL,
		noIndex:  noIndex,
	}
}

// Sitemap handles GET /sitemap.xml. When projects cannot be loaded the
// sitemap still lists the fixed sections.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context(), repository.VisibilityPublic)
	if err != nil {
		slog.Warn("sitemap without projects", "category", model.EventCategoryRemote, "error", err)
		projects = nil
	}

	data, err := seo.GenerateSitemap(h.siteURL, projects)
	if err != nil {
		logAndInternalError(w, "failed to generate sitemap", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.noIndex,
	})))
}
