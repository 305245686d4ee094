// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth holds the admin session state machine.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/apiclient"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// ErrInvalidCredentials is returned by Login when the backend rejects
// the username or password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// State is the admin session state.
type State int

// Session states. Unknown only exists before Init.
const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is the outcome of a guard transition.
type Session struct {
	State State
	User  *model.User
}

// IsAuthenticated reports whether the session holds a verified user.
func (s Session) IsAuthenticated() bool {
	return s.State == Authenticated && s.User != nil
}

var unauthenticated = Session{State: Unauthenticated}

// Backend is the subset of the API client used by the guard.
type Backend interface {
	Login(ctx context.Context, creds model.Credentials) (string, error)
	Verify(ctx context.Context) (*model.User, error)
}

// Tokens is the session token storage used by the guard.
type Tokens interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context)
	User(ctx context.Context) (string, time.Time)
	SetUser(ctx context.Context, username string, verifiedAt time.Time)
}

// Options configures a Guard.
type Options struct {
	// VerifyInterval is how long a successful verification is trusted
	// before the backend is asked again. Zero verifies on every request.
	VerifyInterval time.Duration
	Logger         *slog.Logger
	Now            func() time.Time
}

// Guard drives the Unknown -> Authenticated | Unauthenticated transitions.
type Guard struct {
	backend        Backend
	tokens         Tokens
	verifyInterval time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// NewGuard creates a guard over the given backend and token storage.
func NewGuard(backend Backend, tokens Tokens, opts Options) *Guard {
	g := &Guard{
		backend:        backend,
		tokens:         tokens,
		verifyInterval: opts.VerifyInterval,
		logger:         opts.Logger,
		now:            opts.Now,
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Init resolves the session for the current request. It never returns
// Unknown.
func (g *Guard) Init(ctx context.Context) Session {
	if g.tokens.Get(ctx) == "" {
		return unauthenticated
	}

	if name, verifiedAt := g.tokens.User(ctx); name != "" && g.verifyInterval > 0 {
		if g.now().Sub(verifiedAt) < g.verifyInterval {
			return Session{State: Authenticated, User: &model.User{Username: name}}
		}
	}

	user, err := g.backend.Verify(ctx)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnavailable) {
			g.logger.Warn("token verification unavailable, clearing session", "error", err)
		} else {
			g.logger.Info("token verification rejected", "error", err)
		}
		g.tokens.Clear(ctx)
		return unauthenticated
	}

	g.tokens.SetUser(ctx, user.Username, g.now())
	return Session{State: Authenticated, User: user}
}

// Login authenticates against the backend and stores the issued token.
// On failure the session stays unauthenticated.
func (g *Guard) Login(ctx context.Context, creds model.Credentials) (Session, error) {
	token, err := g.backend.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return unauthenticated, ErrInvalidCredentials
		}
		return unauthenticated, fmt.Errorf("auth: login: %w", err)
	}

	if err := g.tokens.Set(ctx, token); err != nil {
		return unauthenticated, fmt.Errorf("auth: storing token: %w", err)
	}

	user := &model.User{Username: creds.Username}
	g.tokens.SetUser(ctx, user.Username, g.now())
	g.logger.Info("admin logged in", "user", user.Username)
	return Session{State: Authenticated, User: user}, nil
}

// Logout clears the token and cached user.
func (g *Guard) Logout(ctx context.Context) Session {
	g.tokens.Clear(ctx)
	return unauthenticated
}
