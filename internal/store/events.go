// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth    = "auth"
	EventCategoryContent = "content"
	EventCategoryContact = "contact"
	EventCategoryCache   = "cache"
	EventCategorySystem  = "system"
)

// Event is a persisted operational log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// Events reads and writes the events table.
type Events struct {
	db *sql.DB
}

// NewEvents wraps a migrated database.
func NewEvents(db *sql.DB) *Events {
	return &Events{db: db}
}

// Create inserts an event. A zero CreatedAt is set to now.
func (e *Events) Create(ctx context.Context, ev Event) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	if ev.Metadata == "" {
		ev.Metadata = "{}"
	}
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		ev.Level, ev.Category, ev.Message, ev.Metadata, ev.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (e *Events) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, level, category, message, metadata, created_at FROM events ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var ev Event
		var createdAt int64
		if err := rows.Scan(&ev.ID, &ev.Level, &ev.Category, &ev.Message, &ev.Metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev.CreatedAt = time.UnixMilli(createdAt).UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// DeleteOlderThan removes events created before cutoff.
func (e *Events) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := e.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}
	return res.RowsAffected()
}
