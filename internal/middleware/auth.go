// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/auth"
)

// SessionResolver resolves the admin session of a request.
type SessionResolver interface {
	Init(ctx context.Context) auth.Session
}

// RequireAuth creates middleware that requires an authenticated admin.
// Unauthenticated requests are redirected to loginPath with ?next= set to
// the requested location. The verified user is stored in the context.
func RequireAuth(guard SessionResolver, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := guard.Init(r.Context())
			if !sess.IsAuthenticated() {
				slog.DebugContext(r.Context(), "admin session required", "state", sess.State.String())
				target := ""
				if r.Method == http.MethodGet || r.Method == http.MethodHead {
					target = r.URL.RequestURI()
				}
				http.Redirect(w, r, auth.LoginURL(loginPath, target), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), sess.User)))
		})
	}
}
