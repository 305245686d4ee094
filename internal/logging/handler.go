// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides slog handlers that tag records with the current
// request and keep warnings and errors in the event log.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/store"
)

// ContextHandler adds request_id, method and path attributes taken from the
// context to every record.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if info, ok := RequestFromContext(ctx); ok {
		r = r.Clone()
		if info.ID != "" {
			r.AddAttrs(slog.String("request_id", info.ID))
		}
		r.AddAttrs(slog.String("method", info.Method), slog.String("path", info.Path))
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

// EventWriter persists events.
type EventWriter interface {
	Create(ctx context.Context, ev store.Event) error
}

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the event log.
type EventLogHandler struct {
	inner  slog.Handler
	events EventWriter
	level  slog.Level // Minimum level to forward to the event log
	attrs  []slog.Attr
}

// NewEventLogHandler creates a new EventLogHandler that forwards WARN and above.
func NewEventLogHandler(inner slog.Handler, events EventWriter) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, events, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, events EventWriter, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:  inner,
		events: events,
		level:  level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level || h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.inner.Enabled(ctx, r.Level) {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= h.level {
		h.writeEvent(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithAttrs(attrs),
		events: h.events,
		level:  h.level,
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithGroup(name),
		events: h.events,
		level:  h.level,
		attrs:  h.attrs,
	}
}

// writeEvent stores the record. It uses a background context so events are
// kept when the request is cancelled, and never fails the log call.
func (h *EventLogHandler) writeEvent(ctx context.Context, r slog.Record) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	_ = h.events.Create(ctx, store.Event{
		Level:     eventLevel(r.Level),
		Category:  h.category(r),
		Message:   r.Message,
		Metadata:  h.metadata(ctx, r),
		CreatedAt: r.Time,
	})
}

// eventLevel converts a slog.Level to an event level.
func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return store.EventLevelError
	case level >= slog.LevelWarn:
		return store.EventLevelWarning
	default:
		return store.EventLevelInfo
	}
}

// category uses an explicit "category" attribute or infers one from the message.
func (h *EventLogHandler) category(r slog.Record) string {
	var category string
	for _, a := range h.attrs {
		if a.Key == "category" {
			category = a.Value.String()
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "category" {
			category = a.Value.String()
			return false
		}
		return true
	})
	if category != "" {
		return category
	}

	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "login") || strings.Contains(msg, "logout") ||
		strings.Contains(msg, "session") || strings.Contains(msg, "csrf"):
		return store.EventCategoryAuth
	case strings.Contains(msg, "contact") || strings.Contains(msg, "lead"):
		return store.EventCategoryContact
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return store.EventCategoryCache
	case strings.Contains(msg, "content") || strings.Contains(msg, "snapshot") ||
		strings.Contains(msg, "backend"):
		return store.EventCategoryContent
	default:
		return store.EventCategorySystem
	}
}

// metadata collects the record attributes and request info into a JSON object.
func (h *EventLogHandler) metadata(ctx context.Context, r slog.Record) string {
	meta := make(map[string]string, r.NumAttrs()+len(h.attrs)+2)
	for _, a := range h.attrs {
		if a.Key != "category" {
			meta[a.Key] = a.Value.String()
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != "category" {
			meta[a.Key] = a.Value.String()
		}
		return true
	})
	if info, ok := RequestFromContext(ctx); ok {
		if info.ID != "" {
			meta["request_id"] = info.ID
		}
		meta["path"] = info.Path
	}

	b, err := json.Marshal(meta)
	if err != nil {
		return "{}"
	}
	return string(b)
}
