// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the portfolio data model: projects, their content
// blocks and media, and the favorites collection.
package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Project statuses
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusCompleted = "completed"
	ProjectStatusPublished = "published"
)

// ProjectStatuses lists the valid statuses in form order.
var ProjectStatuses = []string{
	ProjectStatusDraft,
	ProjectStatusCompleted,
	ProjectStatusPublished,
}

// Media types
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is a legacy gallery entry, independent of the block body.
type Media struct {
	Type    string `json:"type"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// Project is a portfolio entry.
type Project struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug,omitempty"`
	Description  string       `json:"description"`
	Technologies Technologies `json:"technologies"`
	Status       string       `json:"status"`
	ImageURL     string       `json:"image_url,omitempty"`
	DemoURL      string       `json:"demo_url,omitempty"`
	GithubURL    string       `json:"github_url,omitempty"`
	Blocks       []Block      `json:"blocks"`
	Media        []Media      `json:"media,omitempty"`
	Featured     bool         `json:"featured,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Views        int64        `json:"views,omitempty"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
}

// IsPublic reports whether the project may be shown on public pages.
func (p Project) IsPublic() bool {
	return p.Status == ProjectStatusPublished || p.Status == ProjectStatusCompleted
}

// IsDraft returns true if the project is a draft.
func (p Project) IsDraft() bool {
	return p.Status == ProjectStatusDraft
}

// Path returns the public URL path of the project, preferring the slug.
func (p Project) Path() string {
	if p.Slug != "" {
		return "/projects/" + p.Slug
	}
	return "/projects/" + strconv.FormatInt(p.ID, 10)
}

// ValidStatus reports whether s is a known project status.
func ValidStatus(s string) bool {
	for _, st := range ProjectStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes a project, accepting the older field names served by
// the backend (short_description, content holding a JSON block array).
func (p *Project) UnmarshalJSON(data []byte) error {
	type alias Project
	aux := struct {
		*alias
		ShortDescription string          `json:"short_description"`
		Content          json.RawMessage `json:"content"`
		CreatedAt        *string         `json:"created_at"`
		UpdatedAt        *string         `json:"updated_at"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	p.CreatedAt = parseTimestamp(aux.CreatedAt)
	p.UpdatedAt = parseTimestamp(aux.UpdatedAt)

	if p.Description == "" && aux.ShortDescription != "" {
		p.Description = aux.ShortDescription
	}
	if len(p.Blocks) == 0 && len(aux.Content) > 0 {
		p.Blocks = decodeLegacyBlocks(aux.Content)
	}
	return nil
}

// timestampLayouts are tried in order; the backend emits naive ISO times.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp returns nil for missing or unparseable values. Naive times
// are read as UTC.
func parseTimestamp(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

// decodeLegacyBlocks reads blocks from a content field that is either a block
// array or a string holding an encoded block array. Anything else yields nil.
func decodeLegacyBlocks(raw json.RawMessage) []Block {
	var blocks []Block
	if err := json.Unmarshal(raw, &blocks); err == nil {
		return blocks
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &blocks); err != nil {
		return nil
	}
	return blocks
}

// FilterPublic returns the projects visible on public pages, preserving order.
func FilterPublic(projects []Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if p.IsPublic() {
			out = append(out, p)
		}
	}
	return out
}
