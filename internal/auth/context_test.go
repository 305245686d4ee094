// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"testing"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

func TestUserContext(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("UserFromContext on empty context should be false")
	}
	ctx := WithUser(context.Background(), &model.User{Username: "admin"})
	user, ok := UserFromContext(ctx)
	if !ok || user.Username != "admin" {
		t.Errorf("UserFromContext() = %v, %v; want admin", user, ok)
	}
}

func TestLoginURL(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/admin/login"},
		{"/admin/login", "/admin/login"},
		{"/admin/contacts", "/admin/login?next=%2Fadmin%2Fcontacts"},
		{"/admin/contacts?status=pending", "/admin/login?next=%2Fadmin%2Fcontacts%3Fstatus%3Dpending"},
	}
	for _, tt := range tests {
		if got := LoginURL("/admin/login", tt.next); got != tt.want {
			t.Errorf("LoginURL(%q) = %q, want %q", tt.next, got, tt.want)
		}
	}
}

func TestSafeNext(t *testing.T) {
	const fallback = "/admin/dashboard"
	tests := []struct {
		name string
		next string
		want string
	}{
		{"empty", "", fallback},
		{"admin path", "/admin/contacts", "/admin/contacts"},
		{"admin root", "/admin", "/admin"},
		{"with query", "/admin/contacts?status=pending", "/admin/contacts?status=pending"},
		{"public path", "/", fallback},
		{"absolute url", "https://evil.example/admin", fallback},
		{"protocol relative", "//evil.example/admin", fallback},
		{"backslash", "/\\evil.example", fallback},
		{"prefix lookalike", "/administrator", fallback},
		{"relative", "admin/contacts", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeNext(tt.next, "/admin", fallback); got != tt.want {
				t.Errorf("SafeNext(%q) = %q, want %q", tt.next, got, tt.want)
			}
		})
	}
}
