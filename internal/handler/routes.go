// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Public *PublicHandler
	Auth   *AuthHandler
	Admin  *AdminHandler
	Health *HealthHandler
}

// RouterConfig holds the cross-cutting pieces of the router.
type RouterConfig struct {
	Sessions *scs.SessionManager
	Guard    middleware.SessionResolver
	CSRF     func(http.Handler) http.Handler
	Security middleware.SecurityHeadersConfig

	// ContactLimiter and LoginLimiter throttle form posts per client IP.
	ContactLimiter *middleware.RateLimiter
	LoginLimiter   *middleware.RateLimiter

	Static       fs.FS
	StaticMaxAge time.Duration
	Timeout      time.Duration
	// RequestLog enables chi's access log.
	RequestLog bool
}

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List          http.HandlerFunc
	NewForm       http.HandlerFunc
	Create        http.HandlerFunc
	EditForm      http.HandlerFunc
	Update        http.HandlerFunc
	ConfirmDelete http.HandlerFunc
	Delete        http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource.
// Routes: GET /, GET /new, POST /, GET /{id}, POST /{id}, GET /{id}/delete, POST /{id}/delete
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	baseID := base + RouteParamID
	r.Get(base, h.List)
	r.Get(base+RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(baseID, h.EditForm)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Get(baseID+RouteSuffixDelete, h.ConfirmDelete)
	r.Post(baseID+RouteSuffixDelete, h.Delete)
}

func crudRoutes[T, In any](c *CRUD[T, In]) crudHandlers {
	return crudHandlers{
		List:          c.List,
		NewForm:       c.New,
		Create:        c.Create,
		EditForm:      c.Edit,
		Update:        c.Update,
		ConfirmDelete: c.ConfirmDelete,
		Delete:        c.Delete,
	}
}

// NewRouter builds the site router.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestContext)
	if cfg.RequestLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(cfg.Timeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(cfg.Security))

	r.Get(RouteHealth, h.Health.Health)
	r.Get(RouteRobots, h.Public.Robots)
	r.Get(RouteSitemap, h.Public.Sitemap)

	if cfg.Static != nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(cfg.Static)))
		r.Handle("/static/*", middleware.StaticCache(cfg.StaticMaxAge)(static))
	}

	r.Group(func(r chi.Router) {
		r.Use(cfg.Sessions.LoadAndSave)
		if cfg.CSRF != nil {
			r.Use(cfg.CSRF)
		}

		r.Get(RouteRoot, h.Public.Home)
		r.With(limit(cfg.ContactLimiter)).Post(RouteContact, h.Public.Contact)

		r.Get(RouteLogin, h.Auth.LoginForm)
		r.With(limit(cfg.LoginLimiter)).Post(RouteLogin, h.Auth.Login)
		r.Post(RouteLogout, h.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.RequireAuth(cfg.Guard, RouteLogin))

			r.Get(RouteAdmin, h.Admin.Index)
			r.Get(RouteDashboard, h.Admin.Dashboard)

			r.Get(RouteContacts, h.Admin.Contacts)
			r.Post(RouteContacts+RouteParamID+RouteSuffixStatus, h.Admin.UpdateContactStatus)
			r.Get(RouteContacts+RouteParamID+RouteSuffixDelete, h.Admin.ConfirmDeleteContact)
			r.Post(RouteContacts+RouteParamID+RouteSuffixDelete, h.Admin.DeleteContact)

			registerCRUD(r, RouteServices, crudRoutes(h.Admin.Services))
			registerCRUD(r, RoutePricing, crudRoutes(h.Admin.Pricing))
			registerCRUD(r, RouteTestimonials, crudRoutes(h.Admin.Testimonials))

			r.Get(RouteCompany, h.Admin.Company)
			r.Post(RouteCompany, h.Admin.UpdateCompany)
		})
	})

	return r
}

func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
