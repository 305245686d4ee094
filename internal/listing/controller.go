// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listing implements the fetch-all, filter-in-memory, mutate-then-
// refetch pattern shared by the admin list screens.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// ErrNotConfirmed is returned by Delete when the user has not confirmed.
var ErrNotConfirmed = errors.New("listing: delete not confirmed")

// RefreshError reports a mutation that succeeded on the backend but whose
// follow-up refetch failed. The canonical list is stale but unchanged.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("listing: refresh after mutation: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Source fetches the full collection.
type Source[T any] func(ctx context.Context) ([]T, error)

// Matcher describes how an entity is searched and filtered.
type Matcher[T any] struct {
	// Fields returns the text searched by Filter.Search.
	Fields func(T) []string
	// Status returns the key compared with Filter.Status. Nil disables
	// status filtering.
	Status func(T) string
}

// Filter is the user's current search and status selection.
type Filter struct {
	Search string
	Status string
}

// Controller holds the canonical list for one screen. It is not safe for
// concurrent use; each request builds its own.
type Controller[T any] struct {
	fetch  Source[T]
	match  Matcher[T]
	items  []T
	loaded bool
}

// New creates a controller. Call Refresh before reading.
func New[T any](fetch Source[T], match Matcher[T]) *Controller[T] {
	return &Controller[T]{fetch: fetch, match: match}
}

// Refresh replaces the canonical list with a fresh fetch. On failure the
// previous list is kept.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	items, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.loaded = true
	return nil
}

// Loaded reports whether at least one Refresh succeeded.
func (c *Controller[T]) Loaded() bool {
	return c.loaded
}

// Items returns a copy of the canonical list.
func (c *Controller[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the size of the canonical list.
func (c *Controller[T]) Len() int {
	return len(c.items)
}

// View returns the items matching f. The canonical list is not modified.
func (c *Controller[T]) View(f Filter) []T {
	needle := strings.TrimSpace(f.Search)
	status := strings.TrimSpace(f.Status)
	filterStatus := status != "" && status != StatusAll && c.match.Status != nil

	fold := cases.Fold()
	if needle != "" {
		needle = fold.String(needle)
	}

	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if filterStatus && c.match.Status(item) != status {
			continue
		}
		if needle != "" && !c.matchText(fold, item, needle) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c *Controller[T]) matchText(fold cases.Caser, item T, needle string) bool {
	if c.match.Fields == nil {
		return false
	}
	for _, field := range c.match.Fields(item) {
		if field == "" {
			continue
		}
		if strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// Counts returns how many items carry each status key.
func (c *Controller[T]) Counts() map[string]int {
	counts := make(map[string]int)
	if c.match.Status == nil {
		return counts
	}
	for _, item := range c.items {
		counts[c.match.Status(item)]++
	}
	return counts
}

// Mutate runs op against the backend and, only if it succeeds, refetches
// the whole collection exactly once. A failed op leaves the list untouched.
func (c *Controller[T]) Mutate(ctx context.Context, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return &RefreshError{Err: err}
	}
	return nil
}

// Delete is Mutate guarded by an explicit confirmation.
func (c *Controller[T]) Delete(ctx context.Context, confirmed bool, op func(ctx context.Context) error) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return c.Mutate(ctx, op)
}
