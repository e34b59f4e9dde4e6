// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blocks

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// classNames matches the renderer's own class lists.
	classNames = regexp.MustCompile(`^[a-z0-9 \-]+$`)
	// embedSrc restricts iframes to the supported video providers.
	embedSrc = regexp.MustCompile(`^https://(www\.youtube\.com/embed/|player\.vimeo\.com/video/)[A-Za-z0-9_\-]+$`)
)

// outputPolicy is applied to every fragment after template execution. It
// allows exactly the markup the fragment templates emit.
var outputPolicy = newOutputPolicy()

func newOutputPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("h2", "h3", "p", "br", "div", "span", "figure", "figcaption")
	p.AllowAttrs("class").Matching(classNames).Globally()
	p.AllowDataAttributes()

	p.AllowURLSchemes("http", "https")
	p.AllowRelativeURLs(true)

	p.AllowAttrs("src", "alt", "loading").OnElements("img")
	p.AllowAttrs("controls", "preload").OnElements("video")
	p.AllowAttrs("src", "type").OnElements("source")
	p.AllowAttrs("src").Matching(embedSrc).OnElements("iframe")
	p.AllowAttrs("title", "allow", "allowfullscreen").OnElements("iframe")

	return p
}
