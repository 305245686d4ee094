// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"net/url"
	"strings"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

type contextKey string

const userKey contextKey = "auth.user"

// WithUser attaches the authenticated admin to ctx.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated admin, if any.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// LoginURL returns loginPath with next set to the requested location.
func LoginURL(loginPath, next string) string {
	if next == "" || next == loginPath {
		return loginPath
	}
	return loginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path under prefix, else fallback.
func SafeNext(next, prefix, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return fallback
	}
	// Reject protocol-relative and backslash tricks.
	if strings.HasPrefix(next, "//") || strings.ContainsAny(next, "\\\r\n") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	if prefix != "" && u.Path != prefix && !strings.HasPrefix(u.Path, prefix+"/") {
		return fallback
	}
	return next
}
