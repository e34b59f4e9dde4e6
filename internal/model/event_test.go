// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"testing"
)

func TestEventCategoriesUnique(t *testing.T) {
	categories := []string{
		EventCategoryAuth,
		EventCategoryProject,
		EventCategoryRemote,
		EventCategoryCache,
		EventCategorySystem,
		EventCategorySchedule,
	}

	seen := make(map[string]bool)
	for _, cat := range categories {
		if seen[cat] {
			t.Errorf("duplicate category: %q", cat)
		}
		seen[cat] = true
	}
}

func TestEventLevelsFilter(t *testing.T) {
	// Only persisted levels are offered as filters.
	if slices.Contains(EventLevels, EventLevelInfo) {
		t.Errorf("EventLevels = %v, should not contain %q", EventLevels, EventLevelInfo)
	}
	for _, level := range []string{EventLevelWarning, EventLevelError} {
		if !slices.Contains(EventLevels, level) {
			t.Errorf("EventLevels = %v, missing %q", EventLevels, level)
		}
	}
}
