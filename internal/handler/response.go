// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/render"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
)

// Flasher stores one-shot notifications for the next rendered page.
type Flasher interface {
	Set(ctx context.Context, message, kind string)
}

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) so the browser follows with a GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, flashes Flasher, url, message, messageType string) {
	flashes.Set(r.Context(), message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, flashes Flasher, url, message string) {
	flashAndRedirect(w, r, flashes, url, message, session.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, flashes Flasher, url, message string) {
	flashAndRedirect(w, r, flashes, url, message, session.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, flashes Flasher, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, flashes, redirectURL, msgInvalidForm)
		return false
	}
	return true
}

// renderPage renders a template and turns a template failure into a 500.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, r, "failed to render template", "template", name, "error", err)
	}
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, r *http.Request, message string, statusCode int, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, r *http.Request, logMsg string, args ...any) {
	logAndHTTPError(w, r, "Erro interno do servidor", http.StatusInternalServerError, logMsg, args...)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
