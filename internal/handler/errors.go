// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/apiclient"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/auth"
)

// apiFailure applies the backend failure policy shared by every admin
// screen. A rejected token sends the user to the login page and returns
// true; the caller must stop. Any other failure is logged and turned into
// the notification text shown with the screen's prior state.
//
// back is where the user returns after logging in again when the failing
// request was not a GET.
func apiFailure(w http.ResponseWriter, r *http.Request, flashes Flasher, err error, message, back string) (bool, string) {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		next := back
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next = r.URL.RequestURI()
		}
		slog.InfoContext(r.Context(), "admin token rejected by backend", "category", "auth")
		flashError(w, r, flashes, auth.LoginURL(RouteLogin, next), msgSessionExpired)
		return true, ""
	}

	slog.ErrorContext(r.Context(), message, "error", err)
	return false, apiMessage(err, message)
}

// handleAPIError is apiFailure for screens that go back to a prior page.
func handleAPIError(w http.ResponseWriter, r *http.Request, flashes Flasher, err error, message, redirectTo string) {
	if done, notice := apiFailure(w, r, flashes, err, message, redirectTo); !done {
		flashError(w, r, flashes, redirectTo, notice)
	}
}

// apiMessage returns the notification text for a backend failure.
func apiMessage(err error, message string) string {
	var apiErr *apiclient.APIError
	switch {
	case apiclient.IsValidation(err) && errors.As(err, &apiErr) && apiErr.Detail != "":
		return message + ": " + apiErr.Detail
	case errors.Is(err, apiclient.ErrUnavailable):
		return message + ". " + msgBackendDown
	case errors.Is(err, apiclient.ErrNotFound):
		return msgNotFound
	default:
		return message
	}
}

// statusForAPIError maps a backend failure to the status of a re-rendered form.
func statusForAPIError(err error) int {
	switch {
	case apiclient.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiclient.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
