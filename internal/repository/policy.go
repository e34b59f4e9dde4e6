// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olegiv/folio/internal/model"
)

// FallbackPolicy decides what reads do when the project service is unreachable.
type FallbackPolicy string

const (
	// PolicyPropagate returns ErrUnavailable to the caller.
	PolicyPropagate FallbackPolicy = "propagate"
	// PolicyFallback serves the bundled dataset instead.
	PolicyFallback FallbackPolicy = "fallback"
)

// ParsePolicy parses a policy name. Empty selects PolicyPropagate.
func ParsePolicy(s string) (FallbackPolicy, error) {
	switch FallbackPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPropagate:
		return PolicyPropagate, nil
	case PolicyFallback:
		return PolicyFallback, nil
	}
	return "", fmt.Errorf("unknown fallback policy %q", s)
}

//go:embed data/*.json
var bundled embed.FS

// BundledProjects returns a fresh copy of the bundled project dataset.
func BundledProjects() ([]model.Project, error) {
	data, err := bundled.ReadFile("data/projects.json")
	if err != nil {
		return nil, fmt.Errorf("reading bundled projects: %w", err)
	}
	var projects []model.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("decoding bundled projects: %w", err)
	}
	return projects, nil
}

// BundledFavorites returns the bundled favorites collection.
func BundledFavorites() (model.Favorites, error) {
	var fav model.Favorites
	data, err := bundled.ReadFile("data/favorites.json")
	if err != nil {
		return fav, fmt.Errorf("reading bundled favorites: %w", err)
	}
	if err := json.Unmarshal(data, &fav); err != nil {
		return fav, fmt.Errorf("decoding bundled favorites: %w", err)
	}
	return fav, nil
}
