// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/mileusna/useragent"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/apiclient"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/content"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/deeplink"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/render"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/seo"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/webhook"
)

// HomeContent resolves the public sections.
type HomeContent interface {
	Home(ctx context.Context) content.Home
	Company(ctx context.Context) content.Section[model.CompanyInfo]
}

// ContactSubmitter forwards a lead to the backend.
type ContactSubmitter interface {
	SubmitContact(ctx context.Context, req model.ContactRequest) (*apiclient.ContactReceipt, error)
}

// EventDispatcher queues outbound webhook events.
type EventDispatcher interface {
	Dispatch(ctx context.Context, eventType string, data any) error
}

// PublicHandler serves the public site.
type PublicHandler struct {
	content  HomeContent
	contacts ContactSubmitter
	renderer *render.Renderer
	flashes  Flasher
	site     seo.SiteConfig

	dispatcher  EventDispatcher
	countryCode string
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(content HomeContent, contacts ContactSubmitter, renderer *render.Renderer, flashes Flasher, site seo.SiteConfig) *PublicHandler {
	return &PublicHandler{
		content:  content,
		contacts: contacts,
		renderer: renderer,
		flashes:  flashes,
		site:     site,
	}
}

// SetDispatcher forwards accepted leads to d. countryCode builds the
// WhatsApp reply link carried in the event.
func (h *PublicHandler) SetDispatcher(d EventDispatcher, countryCode string) {
	h.dispatcher = d
	h.countryCode = countryCode
}

// dispatchLeadEvent notifies the webhook of an accepted lead. Failures are
// logged; the visitor's submission already succeeded.
func (h *PublicHandler) dispatchLeadEvent(ctx context.Context, contactID string, req model.ContactRequest) {
	if h.dispatcher == nil {
		return
	}

	reply := deeplink.ContactReply(model.Contact{Name: req.Name, Phone: req.Phone}, h.countryCode)
	data := webhook.NewLeadEventData(contactID, req, reply)
	if err := h.dispatcher.Dispatch(ctx, webhook.EventLeadCreated, data); err != nil {
		slog.ErrorContext(ctx, "failed to dispatch webhook event",
			"category", "contact",
			"error", err,
			"event_type", webhook.EventLeadCreated,
			"contact_id", contactID)
	}
}

// HomePage is the view model of the public home page.
type HomePage struct {
	Home   content.Home
	Form   model.ContactRequest
	Errors FieldErrors
	Meta   seo.Meta
	Schema template.JS
}

// Home renders the one-page site.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, HomePage{}, "")
}

// Contact handles POST /contact. The lead is submitted once; on success the
// visitor continues on WhatsApp with the same details.
func (h *PublicHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderHome(w, r, http.StatusBadRequest, HomePage{}, msgInvalidForm)
		return
	}

	req := parseContactRequest(r)
	if errs := validateInput(req); errs.Any() {
		h.renderHome(w, r, http.StatusUnprocessableEntity, HomePage{Form: req, Errors: errs}, msgCheckFields)
		return
	}

	receipt, err := h.contacts.SubmitContact(r.Context(), req)
	if err != nil {
		slog.ErrorContext(r.Context(), "contact submission failed", "category", "contact", "error", err)
		status := http.StatusBadGateway
		if errors.Is(err, apiclient.ErrUnavailable) {
			status = http.StatusServiceUnavailable
		}
		h.renderHome(w, r, status, HomePage{Form: req}, msgContactFailed)
		return
	}

	ua := useragent.Parse(r.UserAgent())
	slog.InfoContext(r.Context(), "lead received",
		"category", "contact",
		"contact_id", receipt.ContactID,
		"service", req.Service,
		"device", deviceKind(ua),
		"os", ua.OS,
		"browser", ua.Name,
	)
	h.dispatchLeadEvent(r.Context(), receipt.ContactID, req)

	company := h.content.Company(r.Context())
	h.flashes.Set(r.Context(), msgContactSent, session.FlashSuccess)
	http.Redirect(w, r, deeplink.WhatsApp(company.Data.WhatsApp, deeplink.LeadMessage(req)), http.StatusSeeOther)
}

func (h *PublicHandler) renderHome(w http.ResponseWriter, r *http.Request, status int, page HomePage, notice string) {
	page.Home = h.content.Home(r.Context())
	if page.Home.Degraded() {
		slog.DebugContext(r.Context(), "home served with snapshot sections")
	}
	site := h.site.WithURL(requestSiteURL(r))
	page.Meta = seo.BuildHomeMeta(titleHome, page.Home.Company.Data, site)
	page.Schema = seo.BuildLocalBusinessSchema(page.Meta, page.Home.Company.Data,
		page.Home.Services.Data, page.Home.Testimonials.Data)
	data := render.TemplateData{Title: titleHome, Data: page}
	if notice != "" {
		data.Flash = notice
		data.FlashType = session.FlashError
	}
	renderPage(w, r, h.renderer, status, templateHome, data)
}

// Robots serves robots.txt.
func (h *PublicHandler) Robots(w http.ResponseWriter, r *http.Request) {
	site := h.site.WithURL(requestSiteURL(r))
	body := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     site.SiteURL,
		DisallowAll: site.NoIndex,
	}).Build()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(body))
}

// Sitemap serves sitemap.xml. The one-page site has a single entry whose
// lastmod follows the newest live service.
func (h *PublicHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	site := h.site.WithURL(requestSiteURL(r))
	if site.NoIndex {
		http.NotFound(w, r)
		return
	}

	b := seo.NewSitemapBuilder(site.SiteURL)
	b.AddHomepage(lastModified(h.content.Home(r.Context())))
	body, err := b.Build()
	if err != nil {
		slog.ErrorContext(r.Context(), "building sitemap failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body)
}

// lastModified returns the newest service creation time of live content.
func lastModified(home content.Home) time.Time {
	var newest time.Time
	if home.Services.Source != content.SourceLive {
		return newest
	}
	for _, s := range home.Services.Data {
		if s.CreatedAt.After(newest) {
			newest = s.CreatedAt.Time
		}
	}
	return newest
}

// requestSiteURL derives the public origin from the request.
func requestSiteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func deviceKind(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}
