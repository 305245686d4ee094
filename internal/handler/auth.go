// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/apiclient"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/auth"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/middleware"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/render"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
)

// LoginGuard drives the admin session transitions.
type LoginGuard interface {
	Init(ctx context.Context) auth.Session
	Login(ctx context.Context, creds model.Credentials) (auth.Session, error)
	Logout(ctx context.Context) auth.Session
}

// AuthHandler handles authentication routes.
type AuthHandler struct {
	guard           LoginGuard
	loginProtection *middleware.LoginProtection
	renderer        *render.Renderer
	flashes         Flasher
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(guard LoginGuard, lp *middleware.LoginProtection, renderer *render.Renderer, flashes Flasher) *AuthHandler {
	return &AuthHandler{
		guard:           guard,
		loginProtection: lp,
		renderer:        renderer,
		flashes:         flashes,
	}
}

// LoginPage is the view model of the login form.
type LoginPage struct {
	Username string
	Next     string
}

// LoginForm renders the login page. Authenticated users go straight on.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if h.guard.Init(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, auth.SafeNext(next, RouteAdmin, RouteDashboard), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, LoginPage{Next: next}, "")
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, LoginPage{}, msgInvalidForm)
		return
	}

	creds := model.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	page := LoginPage{Username: creds.Username, Next: r.PostFormValue("next")}

	if errs := validateInput(creds); errs.Any() {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, page, msgLoginRequired)
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsLocked(creds.Username); locked {
			slog.WarnContext(r.Context(), "login attempt on locked account",
				"category", "auth", "username", creds.Username, "ip", middleware.ClientIP(r))
			h.renderLogin(w, r, http.StatusTooManyRequests, page, fmt.Sprintf(msgLoginLocked, formatWait(remaining)))
			return
		}
	}

	sess, err := h.guard.Login(r.Context(), creds)
	switch {
	case err == nil && sess.IsAuthenticated():
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.recordFailure(w, r, creds.Username, page)
		return
	case errors.Is(err, apiclient.ErrUnavailable):
		slog.ErrorContext(r.Context(), "login failed: backend unavailable", "category", "auth", "error", err)
		h.renderLogin(w, r, http.StatusServiceUnavailable, page, msgBackendDown)
		return
	default:
		slog.ErrorContext(r.Context(), "login failed", "category", "auth", "error", err)
		h.renderLogin(w, r, http.StatusBadGateway, page, apiMessage(err, msgLoginFailed))
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccess(creds.Username)
	}

	flashSuccess(w, r, h.flashes, auth.SafeNext(page.Next, RouteAdmin, RouteDashboard),
		fmt.Sprintf(msgLoginWelcome, sess.User.Username))
}

func (h *AuthHandler) recordFailure(w http.ResponseWriter, r *http.Request, username string, page LoginPage) {
	status := http.StatusUnauthorized
	notice := msgLoginInvalid
	if h.loginProtection != nil {
		if locked, lockout := h.loginProtection.RecordFailure(username); locked {
			status = http.StatusTooManyRequests
			notice = fmt.Sprintf(msgLoginLocked, formatWait(lockout))
		}
	}
	slog.WarnContext(r.Context(), "failed login attempt",
		"category", "auth", "username", username, "ip", middleware.ClientIP(r))
	h.renderLogin(w, r, status, page, notice)
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.guard.Logout(r.Context())
	flashAndRedirect(w, r, h.flashes, RouteLogin, msgLoggedOut, session.FlashInfo)
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, page LoginPage, notice string) {
	data := render.TemplateData{Title: titleLogin, Data: page}
	if notice != "" {
		data.Flash = notice
		data.FlashType = session.FlashError
	}
	renderPage(w, r, h.renderer, status, templateLogin, data)
}

// formatWait renders a lockout duration in minutes, at least one.
func formatWait(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes <= 1 {
		return "1 minuto"
	}
	return fmt.Sprintf("%d minutos", minutes)
}
