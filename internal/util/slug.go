// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides URL slug generation with Unicode transliteration.
package util

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugStrip matches everything except letters, digits, whitespace and hyphens
	slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	// slugSeparators matches runs of whitespace and hyphens
	slugSeparators = regexp.MustCompile(`[\s-]+`)
)

// Slugify converts a title to a URL-friendly slug. Non-Latin text is
// transliterated to ASCII first, so "Über München" becomes "uber-munchen".
// Punctuation is dropped rather than turned into a separator.
func Slugify(s string) string {
	result := unidecode.Unidecode(norm.NFKC.String(s))
	result = strings.ToLower(result)
	result = slugStrip.ReplaceAllString(result, "")
	result = slugSeparators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}
