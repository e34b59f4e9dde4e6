// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/folio/internal/model"
)

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"truncate":       truncate,
		"join":           strings.Join,
		"lower":          strings.ToLower,
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"blockTypes": func() []model.BlockType {
			return model.BlockTypes
		},
		"statuses": func() []string {
			return model.ProjectStatuses
		},
	}
}

// formatDate accepts time.Time or *time.Time; nil and zero times render empty.
func formatDate(v any) string {
	t, ok := toTime(v)
	if !ok {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func formatDateTime(v any) string {
	t, ok := toTime(v)
	if !ok {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

// truncate shortens s to at most n runes, appending "..." when cut.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}
