// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session persists the admin bearer token and flash notifications
// in a durable server-side session.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys. Only TokenStore reads or writes the auth keys.
const (
	keyToken      = "admin_token"
	keyUser       = "admin_user"
	keyVerifiedAt = "admin_verified_at"
	keyFlash      = "flash"
	keyFlashType  = "flash_type"
)

// CookieName is the name of the session cookie.
const CookieName = "tmsite_session"

// Options configures the session manager.
type Options struct {
	IsDev    bool
	Lifetime time.Duration
}

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, opts Options) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = opts.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = 24 * time.Hour
	}
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !opts.IsDev // Secure cookies in production only

	return sm
}

// TokenStore is the single owner of the admin session token.
// All methods require a context that went through sm.LoadAndSave.
type TokenStore struct {
	sm *scs.SessionManager
}

// NewTokenStore wraps a session manager.
func NewTokenStore(sm *scs.SessionManager) *TokenStore {
	return &TokenStore{sm: sm}
}

// Get returns the stored token, or "" when there is none.
func (s *TokenStore) Get(ctx context.Context) string {
	return s.sm.GetString(ctx, keyToken)
}

// Set stores a freshly issued token. The session id is renewed first to
// prevent session fixation.
func (s *TokenStore) Set(ctx context.Context, token string) error {
	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session: %w", err)
	}
	s.sm.Put(ctx, keyToken, token)
	s.sm.Remove(ctx, keyUser)
	s.sm.Remove(ctx, keyVerifiedAt)
	return nil
}

// Clear removes the token and any cached user.
func (s *TokenStore) Clear(ctx context.Context) {
	s.sm.Remove(ctx, keyToken)
	s.sm.Remove(ctx, keyUser)
	s.sm.Remove(ctx, keyVerifiedAt)
}

// User returns the username cached by the last successful verification.
func (s *TokenStore) User(ctx context.Context) (string, time.Time) {
	var at time.Time
	if ns := s.sm.GetInt64(ctx, keyVerifiedAt); ns != 0 {
		at = time.Unix(0, ns)
	}
	return s.sm.GetString(ctx, keyUser), at
}

// SetUser caches a verified username alongside the token. The time is kept
// as Unix nanoseconds; the gob session codec only handles basic types.
func (s *TokenStore) SetUser(ctx context.Context, username string, verifiedAt time.Time) {
	s.sm.Put(ctx, keyUser, username)
	s.sm.Put(ctx, keyVerifiedAt, verifiedAt.UnixNano())
}

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flashes stores and pops one-shot notifications.
type Flashes struct {
	sm *scs.SessionManager
}

// NewFlashes wraps a session manager.
func NewFlashes(sm *scs.SessionManager) *Flashes {
	return &Flashes{sm: sm}
}

// Set stores a notification shown on the next rendered page.
func (f *Flashes) Set(ctx context.Context, message, kind string) {
	f.sm.Put(ctx, keyFlash, message)
	f.sm.Put(ctx, keyFlashType, kind)
}

// Pop returns and removes the pending notification.
func (f *Flashes) Pop(ctx context.Context) (message, kind string) {
	message = f.sm.PopString(ctx, keyFlash)
	if message == "" {
		return "", ""
	}
	kind = f.sm.PopString(ctx, keyFlashType)
	if kind == "" {
		kind = FlashInfo
	}
	return message, kind
}
