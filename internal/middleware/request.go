// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/logging"
)

// RequestContext copies the request path and the chi request id into the
// context so every log record of the request carries them. It must run
// after chi's RequestID middleware.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithRequest(r.Context(), logging.RequestInfo{
			ID:     chimw.GetReqID(r.Context()),
			Method: r.Method,
			Path:   r.URL.Path,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
