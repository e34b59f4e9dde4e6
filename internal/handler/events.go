// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/render"
	"github.com/olegiv/folio/internal/store"
)

// EventsPerPage is the number of events to display per page.
const EventsPerPage = 25

// EventsHandler handles the event log page.
type EventsHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB, renderer *render.Renderer) *EventsHandler {
	return &EventsHandler{
		queries:  store.New(db),
		renderer: renderer,
	}
}

// EventView is an event prepared for display.
type EventView struct {
	store.Event
	Details string
}

// EventsListData holds data for the events list template.
type EventsListData struct {
	Events     []EventView
	Level      string
	Levels     []string
	Pagination Pagination
}

// List handles GET /admin/events?level=&page=.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	if !slices.Contains(model.EventLevels, level) {
		level = ""
	}

	var (
		total int64
		err   error
	)
	if level != "" {
		total, err = h.queries.CountEventsByLevel(r.Context(), level)
	} else {
		total, err = h.queries.CountEvents(r.Context())
	}
	if err != nil {
		logAndInternalError(w, "failed to count events", "error", err)
		return
	}

	pagination := NewPagination(pageParam(r), total, EventsPerPage, "/admin/events", r.URL.Query())

	var events []store.Event
	if level != "" {
		events, err = h.queries.ListEventsByLevel(r.Context(), store.ListEventsByLevelParams{
			Level:  level,
			Limit:  EventsPerPage,
			Offset: pagination.Offset(),
		})
	} else {
		events, err = h.queries.ListEvents(r.Context(), store.ListEventsParams{
			Limit:  EventsPerPage,
			Offset: pagination.Offset(),
		})
	}
	if err != nil {
		logAndInternalError(w, "failed to list events", "error", err)
		return
	}

	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, EventView{Event: e, Details: formatMetadata(e.Metadata)})
	}

	renderPage(w, r, h.renderer, http.StatusOK, "admin/events", render.TemplateData{
		Title: "Events",
		Data: EventsListData{
			Events:     views,
			Level:      level,
			Levels:     model.EventLevels,
			Pagination: pagination,
		},
	})
}

// formatMetadata converts JSON metadata to "key: value" pairs sorted by key.
// Anything that is not a JSON object is returned as-is.
func formatMetadata(metadata string) string {
	if metadata == "" || metadata == "{}" {
		return ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(metadata), &data); err != nil {
		return metadata
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		var value string
		switch v := data[key].(type) {
		case string:
			value = v
		case float64:
			value = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			value = strconv.FormatBool(v)
		default:
			if b, err := json.Marshal(v); err == nil {
				value = string(b)
			}
		}
		parts = append(parts, key+": "+value)
	}
	return strings.Join(parts, ", ")
}
