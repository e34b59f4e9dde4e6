// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap, robots.txt and page meta tags of the site.
package seo

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/olegiv/folio/internal/model"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequency values used by the site.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder builds sitemap XML for the site's pages and projects.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: strings.TrimSuffix(siteURL, "/")}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddSection adds a fixed site section such as /projects.
func (b *SitemapBuilder) AddSection(path string, freq ChangeFreq, priority string) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: freq,
		Priority:   priority,
	})
}

// AddProject adds a project detail page. Non-public projects are skipped.
func (b *SitemapBuilder) AddProject(p model.Project) {
	if !p.IsPublic() {
		return
	}
	u := SitemapURL{
		Loc:        b.siteURL + p.Path(),
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.8",
	}
	if p.UpdatedAt != nil {
		u.LastMod = p.UpdatedAt.UTC().Format(time.RFC3339)
	} else if p.CreatedAt != nil {
		u.LastMod = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), xmlBytes...), nil
}

// GenerateSitemap builds the full sitemap: homepage, sections and every
// public project.
func GenerateSitemap(siteURL string, projects []model.Project) ([]byte, error) {
	b := NewSitemapBuilder(siteURL)
	b.AddHomepage()
	b.AddSection("/projects", ChangeFreqWeekly, "0.9")
	b.AddSection("/favorites", ChangeFreqMonthly, "0.5")
	for _, p := range projects {
		b.AddProject(p)
	}
	return b.Build()
}
