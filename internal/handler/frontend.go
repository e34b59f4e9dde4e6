// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/blocks"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/repository"
	"github.com/olegiv/folio/internal/seo"
)

// Counts of projects shown on the home page and in the related list.
const (
	FeaturedCount = 3
	RelatedCount  = 3
)

// ProjectReader reads the portfolio content.
type ProjectReader interface {
	List(ctx context.Context, vis repository.Visibility) ([]model.Project, error)
	Favorites(ctx context.Context) (model.Favorites, error)
}

// FrontendHandler serves the public pages.
type FrontendHandler struct {
	renderer *render.Renderer
	projects ProjectReader
	site     *seo.SiteConfig
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, projects ProjectReader, site *seo.SiteConfig) *FrontendHandler {
	return &FrontendHandler{
		renderer: renderer,
		projects: projects,
		site:     site,
	}
}

// HomeData holds data for the home page.
type HomeData struct {
	Featured []model.Project
	Error    string
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	var data HomeData

	projects, err := h.projects.List(r.Context(), repository.VisibilityPublic)
	if err != nil {
		slog.Warn("failed to load projects", "category", model.EventCategoryRemote, "error", err)
		data.Error = repository.Message(err)
	} else {
		data.Featured = repository.Featured(projects, FeaturedCount)
	}

	renderPage(w, r, h.renderer, http.StatusOK, "pages/home", render.TemplateData{
		Meta: seo.BuildMeta(h.site, "", "", RouteRoot),
		Data: data,
	})
}

// ProjectsData holds data for the project list.
type ProjectsData struct {
	Projects     []model.Project
	Technologies []string
	Query        string
	Tech         string
	Total        int
	Error        string
}

// Filtered reports whether a search or technology filter is active.
func (d ProjectsData) Filtered() bool {
	return d.Query != "" || d.Tech != ""
}

// Projects handles GET /projects.
func (h *FrontendHandler) Projects(w http.ResponseWriter, r *http.Request) {
	data := ProjectsData{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Tech:  strings.TrimSpace(r.URL.Query().Get("tech")),
	}

	projects, err := h.projects.List(r.Context(), repository.VisibilityPublic)
	if err != nil {
		slog.Warn("failed to load projects", "category", model.EventCategoryRemote, "error", err)
		data.Error = repository.Message(err)
	} else {
		data.Total = len(projects)
		data.Technologies = repository.TechnologyIndex(projects)
		if data.Tech != "" {
			projects = repository.FilterByTechnology(projects, data.Tech)
		}
		if data.Query != "" {
			projects = repository.Search(projects, data.Query)
		}
		data.Projects = projects
	}

	renderPage(w, r, h.renderer, http.StatusOK, "pages/projects", render.TemplateData{
		Title: "Projects",
		Meta:  seo.BuildMeta(h.site, "Projects", "All portfolio projects", RouteProjects),
		Data:  data,
	})
}

// ProjectData holds data for the project detail page.
type ProjectData struct {
	Project model.Project
	Content template.HTML
	Media   []blocks.Fragment
	Related []model.Project
}

// Project handles GET /projects/{id}. The parameter is a numeric ID or a
// slug; numeric requests for a project with a slug are redirected to it.
func (h *FrontendHandler) Project(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")

	projects, err := h.projects.List(r.Context(), repository.VisibilityPublic)
	if err != nil {
		h.remoteError(w, r, err)
		return
	}

	p, byID, ok := findProject(projects, key)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if byID && p.Slug != "" {
		http.Redirect(w, r, p.Path(), http.StatusMovedPermanently)
		return
	}

	data := ProjectData{
		Project: p,
		Content: blocks.Render(p.Blocks).HTML(),
		Media:   blocks.RenderMedia(p.Media),
		Related: repository.Related(projects, p, RelatedCount),
	}

	renderPage(w, r, h.renderer, http.StatusOK, "pages/project", render.TemplateData{
		Title: p.Title,
		Meta:  seo.BuildProjectMeta(&p, h.site),
		Data:  data,
	})
}

// findProject looks a project up by numeric ID first, then by slug.
func findProject(projects []model.Project, key string) (model.Project, bool, bool) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		for _, p := range projects {
			if p.ID == id {
				return p, true, true
			}
		}
	}
	for _, p := range projects {
		if p.Slug != "" && p.Slug == key {
			return p, false, true
		}
	}
	return model.Project{}, false, false
}

// FavoritesData holds data for the favorites page.
type FavoritesData struct {
	Tab   string
	Tabs  []string
	Tiers []model.Tier
}

// Favorites handles GET /favorites?tab=films|sports.
func (h *FrontendHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	tab := model.NormalizeTab(r.URL.Query().Get("tab"))

	fav, err := h.projects.Favorites(r.Context())
	if err != nil {
		h.remoteError(w, r, err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, "pages/favorites", render.TemplateData{
		Title: "Favorites",
		Meta:  seo.BuildMeta(h.site, "Favorites", "Favorite films and athletes", "/favorites"),
		Data: FavoritesData{
			Tab:   tab,
			Tabs:  []string{model.FavoritesTabFilms, model.FavoritesTabSports},
			Tiers: fav.Tab(tab),
		},
	})
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusNotFound, "pages/not_found", render.TemplateData{
		Title: "Page Not Found",
		Meta:  seo.BuildMeta(h.site, "Page Not Found", "", r.URL.Path),
	})
}

// ErrorData holds data for the error page.
type ErrorData struct {
	Message string
}

// remoteError renders the error page for a failed project service call.
func (h *FrontendHandler) remoteError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	slog.Warn("project service request failed", "category", model.EventCategoryRemote, "path", r.URL.Path, "error", err)

	status := http.StatusBadGateway
	if errors.Is(err, repository.ErrUnavailable) {
		status = http.StatusServiceUnavailable
	}
	renderPage(w, r, h.renderer, status, "pages/error", render.TemplateData{
		Title: "Unavailable",
		Meta:  seo.BuildMeta(h.site, "Unavailable", "", r.URL.Path),
		Data:  ErrorData{Message: repository.Message(err)},
	})
}
