// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/folio/internal/model"
)

func sampleProjects() []model.Project {
	return []model.Project{
		{ID: 1, Title: "Portfolio", Description: "Personal site", Technologies: model.Technologies{"Go", "HTML"}, Tags: []string{"web"}},
		{ID: 2, Title: "Shop", Description: "Online store", Technologies: model.Technologies{"React", "Node.js"}, Tags: []string{"web", "payments"}, Featured: true},
		{ID: 3, Title: "Analytics", Description: "Promotion models", Technologies: model.Technologies{"Python", "go"}},
		{ID: 4, Title: "Unrelated", Technologies: model.Technologies{"Rust"}},
	}
}

func ids(projects []model.Project) []int64 {
	out := make([]int64, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func TestSearch(t *testing.T) {
	projects := sampleProjects()

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(Search(projects, "  ")))
	assert.Equal(t, []int64{2}, ids(Search(projects, "STORE")))
	assert.Equal(t, []int64{1, 2}, ids(Search(projects, "web")))
	assert.Equal(t, []int64{1, 3}, ids(Search(projects, "go")))
	assert.Empty(t, Search(projects, "haskell"))
}

func TestFilterByTechnology(t *testing.T) {
	projects := sampleProjects()
	assert.Equal(t, []int64{1, 3}, ids(FilterByTechnology(projects, "GO")))
	assert.Len(t, FilterByTechnology(projects, ""), 4)
}

func TestTechnologyIndex(t *testing.T) {
	assert.Equal(t,
		[]string{"Go", "HTML", "Node.js", "Python", "React", "Rust"},
		TechnologyIndex(sampleProjects()))
}

func TestFeatured(t *testing.T) {
	projects := sampleProjects()
	assert.Equal(t, []int64{2, 1, 3}, ids(Featured(projects, 3)))
	assert.Equal(t, []int64{2, 1, 3, 4}, ids(Featured(projects, 10)))
	assert.Nil(t, Featured(projects, 0))
}

func TestRelated(t *testing.T) {
	projects := sampleProjects()

	// Shop shares one tag (2) with Portfolio; Analytics shares one technology (1).
	related := Related(projects, projects[0], 3)
	assert.Equal(t, []int64{2, 3}, ids(related))

	assert.Equal(t, []int64{2}, ids(Related(projects, projects[0], 1)))
	assert.Empty(t, Related(projects, projects[3], 3))
	assert.Nil(t, Related(projects, projects[0], 0))
}
