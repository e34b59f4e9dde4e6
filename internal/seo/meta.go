// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/folio/internal/model"
)

// Meta holds the SEO meta tag data for a page.
type Meta struct {
	Title         string
	Description   string
	Keywords      string
	Canonical     string
	OGTitle       string
	OGDescription string
	OGImage       string // absolute URL
	OGType        string // website | article
	OGSiteName    string
	Robots        string
	TwitterCard   string
	JSONLD        template.JS
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	SiteName        string
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
	NoIndex         bool
}

// descriptionLength is the maximum length of a generated meta description.
const descriptionLength = 160

// BuildMeta creates meta tags for a section page such as the project list.
// An empty title yields the homepage meta.
func BuildMeta(site *SiteConfig, title, description, path string) *Meta {
	meta := &Meta{
		Title:       site.SiteName,
		Description: site.SiteDescription,
		Canonical:   strings.TrimSuffix(site.SiteURL, "/") + path,
		OGType:      "website",
		OGSiteName:  site.SiteName,
		OGImage:     makeAbsoluteURL(site.DefaultOGImage, site.SiteURL),
		Robots:      robotsDirective(site.NoIndex),
		TwitterCard: "summary_large_image",
	}
	if title != "" {
		meta.Title = title + " | " + site.SiteName
	}
	if description != "" {
		meta.Description = truncateText(description, descriptionLength)
	}
	meta.OGTitle = meta.Title
	meta.OGDescription = meta.Description

	if title == "" {
		meta.JSONLD = marshalJSONLD(WebSiteSchema{
			Context:     "https://schema.org",
			Type:        "WebSite",
			Name:        site.SiteName,
			URL:         site.SiteURL,
			Description: site.SiteDescription,
		})
	}
	return meta
}

// BuildProjectMeta creates meta tags and JSON-LD for a project detail page.
// The description falls back to the first text block.
func BuildProjectMeta(p *model.Project, site *SiteConfig) *Meta {
	description := p.Description
	if description == "" {
		for _, b := range p.Blocks {
			if b.Type == model.BlockText && strings.TrimSpace(b.Content) != "" {
				description = b.Content
				break
			}
		}
	}

	meta := BuildMeta(site, p.Title, collapseSpace(description), p.Path())
	meta.OGType = "article"
	meta.Keywords = strings.Join(append(append([]string{}, p.Technologies...), p.Tags...), ", ")
	if p.ImageURL != "" {
		meta.OGImage = makeAbsoluteURL(p.ImageURL, site.SiteURL)
	}
	meta.JSONLD = buildProjectSchema(p, site, meta)
	return meta
}

// CreativeWorkSchema represents JSON-LD CreativeWork structured data.
type CreativeWorkSchema struct {
	Context      string   `json:"@context"`
	Type         string   `json:"@type"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url"`
	Image        string   `json:"image,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	DateCreated  string   `json:"dateCreated,omitempty"`
	DateModified string   `json:"dateModified,omitempty"`
	CodeRepo     string   `json:"codeRepository,omitempty"`
}

// WebSiteSchema represents JSON-LD WebSite structured data for the homepage.
type WebSiteSchema struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

func buildProjectSchema(p *model.Project, site *SiteConfig, meta *Meta) template.JS {
	schema := CreativeWorkSchema{
		Context:     "https://schema.org",
		Type:        "CreativeWork",
		Name:        p.Title,
		Description: meta.Description,
		URL:         meta.Canonical,
		Image:       meta.OGImage,
		Keywords:    p.Technologies,
		CodeRepo:    p.GithubURL,
	}
	if p.CreatedAt != nil {
		schema.DateCreated = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	if p.UpdatedAt != nil {
		schema.DateModified = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if schema.Image == "" {
		schema.Image = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}
	return marshalJSONLD(schema)
}

// marshalJSONLD marshals structured data for a script tag. encoding/json
// escapes <, > and & so the output cannot close the tag.
func marshalJSONLD(v any) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(data) //nolint:gosec // JSON output with HTML-escaped characters
}

func robotsDirective(noIndex bool) string {
	if noIndex {
		return "noindex,nofollow"
	}
	return "index,follow"
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateText truncates text to maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	truncated := string([]rune(text)[:maxLen])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending the site URL.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return strings.TrimSuffix(siteURL, "/") + url
}
