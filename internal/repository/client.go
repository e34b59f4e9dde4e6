// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package repository provides access to portfolio projects held by the
// remote project service. Reads go through the cache and can fall back to a
// bundled dataset; offline mode replaces the service with an in-memory store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/cache"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/util"
)

// Cache keys
const (
	projectsCacheKey  = "projects:all"
	favoritesCacheKey = "favorites:all"
)

// Visibility selects which projects a read returns.
type Visibility int

const (
	// VisibilityPublic returns published and completed projects only.
	VisibilityPublic Visibility = iota
	// VisibilityAdmin returns every project regardless of status.
	VisibilityAdmin
)

// backend is the source behind Client: the remote service or the demo store.
type backend interface {
	listProjects(ctx context.Context) ([]model.Project, error)
	createProject(ctx context.Context, p model.Project, token string) (model.Project, error)
	updateProject(ctx context.Context, id int64, p model.Project, token string) error
	deleteProject(ctx context.Context, id int64, token string) error
	login(ctx context.Context, password string) (string, error)
	verify(ctx context.Context, token string) error
	favorites(ctx context.Context) (model.Favorites, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration

	Cache    cache.Cache
	CacheTTL time.Duration

	Policy FallbackPolicy

	// Offline serves everything from a DemoStore; BaseURL is ignored.
	Offline      bool
	DemoPassword string
}

// Client reads and mutates portfolio projects.
type Client struct {
	backend   backend
	policy    FallbackPolicy
	offline   bool
	projects  *cache.Typed[[]model.Project]
	favorites *cache.Typed[model.Favorites]
}

// New creates a Client. Without a cache in opts a memory cache is used.
func New(opts Options) (*Client, error) {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyPropagate
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: opts.CacheTTL})
	}

	c := &Client{
		policy:    policy,
		offline:   opts.Offline,
		projects:  cache.NewTyped[[]model.Project](opts.Cache, opts.CacheTTL),
		favorites: cache.NewTyped[model.Favorites](opts.Cache, opts.CacheTTL),
	}

	if opts.Offline {
		store, err := NewDemoStore(opts.DemoPassword)
		if err != nil {
			return nil, fmt.Errorf("creating demo store: %w", err)
		}
		c.backend = store
		return c, nil
	}

	if opts.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	c.backend = &remote{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
	}
	return c, nil
}

// Offline reports whether the client runs against the demo store.
func (c *Client) Offline() bool {
	return c.offline
}

// List returns projects in service order, filtered by visibility.
func (c *Client) List(ctx context.Context, vis Visibility) ([]model.Project, error) {
	projects, err := c.all(ctx)
	if err != nil {
		return nil, err
	}
	if vis == VisibilityPublic {
		return model.FilterPublic(projects), nil
	}
	return projects, nil
}

// Get returns a single project by ID. Projects hidden by vis are reported
// as ErrNotFound.
func (c *Client) Get(ctx context.Context, id int64, vis Visibility) (model.Project, error) {
	projects, err := c.List(ctx, vis)
	if err != nil {
		return model.Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Project{}, ErrNotFound
}

// GetBySlug returns a single project by slug.
func (c *Client) GetBySlug(ctx context.Context, slug string, vis Visibility) (model.Project, error) {
	projects, err := c.List(ctx, vis)
	if err != nil {
		return model.Project{}, err
	}
	for _, p := range projects {
		if p.Slug != "" && p.Slug == slug {
			return p, nil
		}
	}
	return model.Project{}, ErrNotFound
}

// Create stores a new project and returns it with its assigned ID.
func (c *Client) Create(ctx context.Context, p model.Project, token string) (model.Project, error) {
	if token == "" {
		return p, ErrMissingToken
	}
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Title)
	}
	created, err := c.backend.createProject(ctx, p, token)
	if err != nil {
		return p, fmt.Errorf("creating project: %w", err)
	}
	c.Invalidate(ctx)
	return created, nil
}

// Update replaces the project with the given ID.
func (c *Client) Update(ctx context.Context, id int64, p model.Project, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Title)
	}
	if err := c.backend.updateProject(ctx, id, p, token); err != nil {
		return fmt.Errorf("updating project %d: %w", id, err)
	}
	c.Invalidate(ctx)
	return nil
}

// Delete removes the project with the given ID.
func (c *Client) Delete(ctx context.Context, id int64, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	if err := c.backend.deleteProject(ctx, id, token); err != nil {
		return fmt.Errorf("deleting project %d: %w", id, err)
	}
	c.Invalidate(ctx)
	return nil
}

// Login exchanges the admin password for a bearer token.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	return c.backend.login(ctx, password)
}

// Verify reports whether token is still accepted by the service.
func (c *Client) Verify(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	return c.backend.verify(ctx, token)
}

// Favorites returns the favorites collection. Unlike projects, favorites
// always fall back to the bundled collection when the service fails.
func (c *Client) Favorites(ctx context.Context) (model.Favorites, error) {
	if fav, ok := c.favorites.Get(ctx, favoritesCacheKey); ok {
		return fav, nil
	}

	fav, err := c.backend.favorites(ctx)
	if err != nil {
		slog.Warn("favorites unavailable, serving bundled favorites", "error", err)
		return BundledFavorites()
	}
	if err := c.favorites.Set(ctx, favoritesCacheKey, fav); err != nil {
		slog.Warn("failed to cache favorites", "error", err)
	}
	return fav, nil
}

// Refresh reloads projects from the source into the cache.
func (c *Client) Refresh(ctx context.Context) (int, error) {
	projects, err := c.backend.listProjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("refreshing projects: %w", err)
	}
	if err := c.projects.Set(ctx, projectsCacheKey, projects); err != nil {
		return 0, fmt.Errorf("caching projects: %w", err)
	}
	return len(projects), nil
}

// Invalidate drops cached project and favorites data.
func (c *Client) Invalidate(ctx context.Context) {
	if err := c.projects.Delete(ctx, projectsCacheKey); err != nil {
		slog.Warn("failed to invalidate project cache", "error", err)
	}
	if err := c.favorites.Delete(ctx, favoritesCacheKey); err != nil {
		slog.Warn("failed to invalidate favorites cache", "error", err)
	}
}

func (c *Client) all(ctx context.Context) ([]model.Project, error) {
	if projects, ok := c.projects.Get(ctx, projectsCacheKey); ok {
		return projects, nil
	}

	projects, err := c.backend.listProjects(ctx)
	if err != nil {
		if c.policy == PolicyFallback && errors.Is(err, ErrUnavailable) {
			slog.Warn("project service unavailable, serving bundled projects", "error", err)
			return BundledProjects()
		}
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	if err := c.projects.Set(ctx, projectsCacheKey, projects); err != nil {
		slog.Warn("failed to cache projects", "error", err)
	}
	return projects, nil
}
