// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. Use errors.Is to classify a failure.
var (
	// ErrUnavailable reports a network failure or timeout.
	ErrUnavailable = errors.New("apiclient: backend unavailable")
	// ErrUnauthorized reports a 401 response.
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	// ErrNotFound reports a 404 response.
	ErrNotFound = errors.New("apiclient: not found")
	// ErrInvalidResponse reports a body that could not be decoded.
	ErrInvalidResponse = errors.New("apiclient: invalid response")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("apiclient: backend error (%d): %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("apiclient: backend error (%d): %s", e.Status, e.Detail)
}

// Is matches ErrUnauthorized and ErrNotFound by status code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// IsValidation reports whether err is a client-side 4xx rejection other
// than 401 and 404.
func IsValidation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status >= 400 && apiErr.Status < 500 &&
		apiErr.Status != http.StatusUnauthorized && apiErr.Status != http.StatusNotFound
}
