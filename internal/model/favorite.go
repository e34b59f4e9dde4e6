// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"sort"
)

// Favorite tabs
const (
	FavoritesTabFilms  = "films"
	FavoritesTabSports = "sports"
)

// FavoriteItem is a single film or athlete entry.
type FavoriteItem struct {
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	Year        int    `json:"year,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Sport       string `json:"sport,omitempty"`
	Achievement string `json:"achievement,omitempty"`
	Poster      string `json:"poster,omitempty"`
	Photo       string `json:"photo,omitempty"`
}

// DisplayName returns the film title or athlete name.
func (f FavoriteItem) DisplayName() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Name
}

// Image returns the poster or photo URL.
func (f FavoriteItem) Image() string {
	if f.Poster != "" {
		return f.Poster
	}
	return f.Photo
}

// Tier is a ranked group of favorites ("S-Tier (Masterpieces)").
type Tier struct {
	Name  string         `json:"name"`
	Items []FavoriteItem `json:"items"`
}

// Favorites groups film and sports favorites by tier.
type Favorites struct {
	Films  []Tier `json:"films"`
	Sports []Tier `json:"sports"`
}

// Tab returns the tiers for a tab name. Unknown tabs fall back to films.
func (f Favorites) Tab(name string) []Tier {
	if name == FavoritesTabSports {
		return f.Sports
	}
	return f.Films
}

// NormalizeTab maps a requested tab to a known one.
func NormalizeTab(name string) string {
	if name == FavoritesTabSports {
		return FavoritesTabSports
	}
	return FavoritesTabFilms
}

// UnmarshalJSON accepts both the list form above and the backend's map form
// {"films": {"S-Tier ...": [...]}, "athletes": {...}}. Map tiers are ordered by name,
// which keeps the S/A/B ranking of the backend's tier labels.
func (f *Favorites) UnmarshalJSON(data []byte) error {
	type listForm struct {
		Films  []Tier `json:"films"`
		Sports []Tier `json:"sports"`
	}
	var lf listForm
	if err := json.Unmarshal(data, &lf); err == nil {
		f.Films, f.Sports = lf.Films, lf.Sports
		return nil
	}

	var mf struct {
		Films    map[string][]FavoriteItem `json:"films"`
		Athletes map[string][]FavoriteItem `json:"athletes"`
	}
	if err := json.Unmarshal(data, &mf); err != nil {
		return err
	}
	f.Films = tiersFromMap(mf.Films)
	f.Sports = tiersFromMap(mf.Athletes)
	return nil
}

func tiersFromMap(m map[string][]FavoriteItem) []Tier {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return tierRank(names[i]) < tierRank(names[j]) })

	tiers := make([]Tier, 0, len(names))
	for _, name := range names {
		tiers = append(tiers, Tier{Name: name, Items: m[name]})
	}
	return tiers
}

// tierRank orders "S-Tier" before "A-Tier" before "B-Tier" and so on.
func tierRank(name string) string {
	if len(name) > 0 && name[0] == 'S' {
		return "0" + name
	}
	return "1" + name
}
