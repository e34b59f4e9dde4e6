// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"slices"
	"sort"
	"strings"

	"github.com/olegiv/folio/internal/model"
)

// Search returns the projects whose title, description, tags or
// technologies contain q, ignoring case. An empty query matches everything.
func Search(projects []model.Project, q string) []model.Project {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return projects
	}

	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }

	var out []model.Project
	for _, p := range projects {
		if contains(p.Title) || contains(p.Description) ||
			slices.ContainsFunc(p.Tags, contains) ||
			slices.ContainsFunc(p.Technologies, contains) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByTechnology returns the projects listing tech. Empty tech matches
// everything.
func FilterByTechnology(projects []model.Project, tech string) []model.Project {
	tech = strings.TrimSpace(tech)
	if tech == "" {
		return projects
	}
	var out []model.Project
	for _, p := range projects {
		if p.Technologies.Contains(tech) {
			out = append(out, p)
		}
	}
	return out
}

// TechnologyIndex returns the distinct technologies across projects, sorted
// case-insensitively. The first spelling seen wins.
func TechnologyIndex(projects []model.Project) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range projects {
		for _, t := range p.Technologies {
			key := strings.ToLower(t)
			if !seen[key] {
				seen[key] = true
				out = append(out, t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

// Featured returns up to n projects, featured ones first, each group in its
// original order.
func Featured(projects []model.Project, n int) []model.Project {
	if n <= 0 {
		return nil
	}
	out := make([]model.Project, 0, n)
	for _, featured := range []bool{true, false} {
		for _, p := range projects {
			if len(out) == n {
				return out
			}
			if p.Featured == featured {
				out = append(out, p)
			}
		}
	}
	return out
}

// Related returns up to n projects sharing tags or technologies with
// current. Shared tags score 2 and shared technologies 1; projects scoring
// zero are dropped and ties keep list order.
func Related(projects []model.Project, current model.Project, n int) []model.Project {
	if n <= 0 {
		return nil
	}

	type scored struct {
		project model.Project
		score   int
	}

	var candidates []scored
	for _, p := range projects {
		if p.ID == current.ID {
			continue
		}
		score := 2*overlap(current.Tags, p.Tags) + overlap(current.Technologies, p.Technologies)
		if score > 0 {
			candidates = append(candidates, scored{project: p, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	out := make([]model.Project, 0, min(n, len(candidates)))
	for _, c := range candidates[:min(n, len(candidates))] {
		out = append(out, c.project)
	}
	return out
}

// overlap counts the distinct entries of a also present in b, ignoring case.
func overlap(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[strings.ToLower(s)] = true
	}
	n := 0
	for _, s := range a {
		key := strings.ToLower(s)
		if set[key] {
			n++
			delete(set, key)
		}
	}
	return n
}
