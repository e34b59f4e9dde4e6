// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
)

// Pagination holds the page links of a paginated admin list.
type Pagination struct {
	Page       int
	TotalPages int
	TotalItems int64
	PerPage    int
	Pages      []PageLink

	baseURL string
	query   url.Values
}

// PageLink is one entry of the page list. Gap entries render as an ellipsis.
type PageLink struct {
	Number  int
	URL     string
	Current bool
	Gap     bool
}

// pageWindow is the number of page links shown around the current page.
const pageWindow = 2

// NewPagination builds pagination for page of total items. Filters in query
// are kept in every link; the page parameter is replaced.
func NewPagination(page int, total int64, perPage int, baseURL string, query url.Values) Pagination {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)

	keep := make(url.Values)
	for k, v := range query {
		if k != "page" && len(v) > 0 && v[0] != "" {
			keep[k] = v
		}
	}

	p := Pagination{
		Page:       page,
		TotalPages: totalPages,
		TotalItems: total,
		PerPage:    perPage,
		baseURL:    baseURL,
		query:      keep,
	}

	start := max(page-pageWindow, 1)
	end := min(page+pageWindow, totalPages)

	if start > 1 {
		p.Pages = append(p.Pages, PageLink{Number: 1, URL: p.URL(1)})
		if start > 2 {
			p.Pages = append(p.Pages, PageLink{Gap: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, PageLink{Number: i, URL: p.URL(i), Current: i == page})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Pages = append(p.Pages, PageLink{Gap: true})
		}
		p.Pages = append(p.Pages, PageLink{Number: totalPages, URL: p.URL(totalPages)})
	}
	return p
}

// URL returns the link to page n.
func (p Pagination) URL(n int) string {
	q := make(url.Values, len(p.query)+1)
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.baseURL + "?" + q.Encode()
}

// Offset returns the row offset of the current page.
func (p Pagination) Offset() int64 {
	return int64((p.Page - 1) * p.PerPage)
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

func (p Pagination) PrevURL() string { return p.URL(p.Page - 1) }
func (p Pagination) NextURL() string { return p.URL(p.Page + 1) }

// ShouldShow reports whether there is more than one page.
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// pageParam reads the page query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
