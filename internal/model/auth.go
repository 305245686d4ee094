// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Credentials is the admin login payload.
type Credentials struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

// User is the admin identity derived from a verified token.
type User struct {
	Username string `json:"username"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// VerifyResponse is returned by token verification.
// Valid is optional; backends that only return the user omit it.
type VerifyResponse struct {
	Valid *bool  `json:"valid,omitempty"`
	User  string `json:"user"`
}
