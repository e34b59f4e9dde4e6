// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the event log table, where the admin Events page reads them.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/store"
)

// EventLogHandler wraps another handler and also writes records at or above
// its level to the events table.
type EventLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr // bound with WithAttrs, keys already group-qualified
	group   string
}

// NewEventLogHandler creates a handler forwarding WARN and above to db.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.write(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append([]slog.Attr{}, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	if h.group != "" {
		name = h.group + "." + name
	}
	clone.group = name
	return &clone
}

// write stores the record under a background context so events survive
// cancelled requests. Failures are dropped; logging them would recurse.
func (h *EventLogHandler) write(r slog.Record) {
	category := ""
	fields := make(map[string]string)

	collect := func(prefix string) func(slog.Attr) bool {
		return func(a slog.Attr) bool {
			if a.Key == "category" {
				category = a.Value.String()
				return true
			}
			fields[prefix+a.Key] = a.Value.String()
			return true
		}
	}
	for _, a := range h.attrs {
		collect("")(a)
	}
	prefix := ""
	if h.group != "" {
		prefix = h.group + "."
	}
	r.Attrs(collect(prefix))

	if category == "" {
		category = inferCategory(r.Message)
	}

	metadata := "{}"
	if len(fields) > 0 {
		if data, err := json.Marshal(fields); err == nil {
			metadata = string(data)
		}
	}

	_, _ = h.queries.CreateEvent(context.Background(), store.CreateEventParams{
		Level:     eventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  metadata,
		CreatedAt: r.Time,
	})
}

func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.EventLevelError
	case level >= slog.LevelWarn:
		return model.EventLevelWarning
	default:
		return model.EventLevelInfo
	}
}

// inferCategory guesses a category from the message when the record carries
// no explicit "category" attribute.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "login"), strings.Contains(msg, "logout"),
		strings.Contains(msg, "token"), strings.Contains(msg, "auth"):
		return model.EventCategoryAuth
	case strings.Contains(msg, "cache"):
		return model.EventCategoryCache
	case strings.Contains(msg, "unavailable"), strings.Contains(msg, "service"):
		return model.EventCategoryRemote
	case strings.Contains(msg, "project"):
		return model.EventCategoryProject
	case strings.Contains(msg, "job"), strings.Contains(msg, "schedule"):
		return model.EventCategorySchedule
	default:
		return model.EventCategorySystem
	}
}
