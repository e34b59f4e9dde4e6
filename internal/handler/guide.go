// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/folio/internal/render"
)

// DefaultGuide is shown at /admin/guide.
const DefaultGuide = "blocks"

// GuideHandler renders the markdown guides of the admin panel.
type GuideHandler struct {
	renderer *render.Renderer
	docs     fs.FS
	md       goldmark.Markdown
}

// NewGuideHandler creates a GuideHandler serving the .md files at the root of docs.
func NewGuideHandler(renderer *render.Renderer, docs fs.FS) *GuideHandler {
	return &GuideHandler{
		renderer: renderer,
		docs:     docs,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Guide is a documentation file available for viewing.
type Guide struct {
	Slug  string
	Title string
}

// GuideData holds data for the guide page.
type GuideData struct {
	Slug    string
	Title   string
	Content template.HTML
	Guides  []Guide
}

// Show handles GET /admin/guide and GET /admin/guide/{slug}.
func (h *GuideHandler) Show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		slug = DefaultGuide
	}
	if !isValidDocsSlug(slug) {
		http.NotFound(w, r)
		return
	}

	content, err := fs.ReadFile(h.docs, slug+".md")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := h.md.Convert(content, &buf); err != nil {
		logAndInternalError(w, "failed to render guide", "guide", slug, "error", err)
		return
	}

	title := slugToTitle(slug)
	renderPage(w, r, h.renderer, http.StatusOK, "admin/guide", render.TemplateData{
		Title: title,
		Data: GuideData{
			Slug:    slug,
			Title:   title,
			Content: template.HTML(buf.String()), //nolint:gosec // embedded markdown, raw HTML disabled
			Guides:  h.listGuides(),
		},
	})
}

// isValidDocsSlug reports whether slug contains only [a-zA-Z0-9_-].
func isValidDocsSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for _, c := range slug {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_') {
			return false
		}
	}
	return true
}

// slugToTitle converts a filename slug to a human-readable title.
func slugToTitle(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (h *GuideHandler) listGuides() []Guide {
	entries, err := fs.ReadDir(h.docs, ".")
	if err != nil {
		return nil
	}

	var guides []Guide
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".md" {
			continue
		}
		slug := strings.TrimSuffix(name, ".md")
		if !isValidDocsSlug(slug) {
			continue
		}
		guides = append(guides, Guide{Slug: slug, Title: slugToTitle(slug)})
	}
	sort.Slice(guides, func(i, j int) bool { return guides[i].Slug < guides[j].Slug })
	return guides
}
