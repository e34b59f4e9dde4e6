// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blocks

import (
	"strings"
)

// GridStyle selects the column policy for multi-image layouts.
type GridStyle int

// Grid styles.
const (
	// StyleImage is used by image blocks carrying several URLs.
	StyleImage GridStyle = iota
	// StyleGallery is used by gallery blocks.
	StyleGallery
)

// Columns returns the grid column count for n images.
//
//	n:        0  1  2  3  4  5  6  7+
//	image:    0  1  2  3  2  3  3  3
//	gallery:  0  1  2  3  2  3  3  4
func Columns(n int, style GridStyle) int {
	switch {
	case n <= 0:
		return 0
	case n <= 3:
		return n
	case n == 4:
		return 2
	case n <= 6 || style == StyleImage:
		return 3
	default:
		return 4
	}
}

// Embed providers
const (
	embedYouTube = "https://www.youtube.com/embed/"
	embedVimeo   = "https://player.vimeo.com/video/"
)

// IsEmbeddable reports whether a video URL points at YouTube or Vimeo.
func IsEmbeddable(url string) bool {
	return strings.Contains(url, "youtube.com") ||
		strings.Contains(url, "youtu.be") ||
		strings.Contains(url, "vimeo.com")
}

// EmbedURL rewrites a shared YouTube or Vimeo link into its iframe form.
// URLs it does not recognise are returned unchanged.
func EmbedURL(url string) string {
	switch {
	case strings.Contains(url, "youtube.com/watch"):
		if id := videoID(url, "v="); id != "" {
			return embedYouTube + id
		}
	case strings.Contains(url, "youtu.be/"):
		if id := videoID(url, "youtu.be/"); id != "" {
			return embedYouTube + id
		}
	case strings.Contains(url, "vimeo.com/") && !strings.Contains(url, "player.vimeo.com/"):
		if id := videoID(url, "vimeo.com/"); id != "" {
			return embedVimeo + id
		}
	}
	return url
}

// videoID returns the text after marker, cut at the next '&' or '?'.
func videoID(url, marker string) string {
	_, rest, ok := strings.Cut(url, marker)
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rest, "&?#"); i >= 0 {
		rest = rest[:i]
	}
	return strings.Trim(rest, "/")
}
