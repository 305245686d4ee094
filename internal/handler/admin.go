// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/apiclient"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/listing"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/render"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/store"
)

// AdminAPI is the authenticated surface of the backend client.
type AdminAPI interface {
	ListServices(ctx context.Context) ([]model.Service, error)
	CreateService(ctx context.Context, in model.ServiceInput) (*model.Service, error)
	UpdateService(ctx context.Context, id string, in model.ServiceInput) error
	DeleteService(ctx context.Context, id string) error

	ListPricing(ctx context.Context) ([]model.PricingCategory, error)
	CreatePricing(ctx context.Context, in model.PricingInput) (*model.PricingCategory, error)
	UpdatePricing(ctx context.Context, id string, in model.PricingInput) error
	DeletePricing(ctx context.Context, id string) error

	ListTestimonials(ctx context.Context) ([]model.Testimonial, error)
	CreateTestimonial(ctx context.Context, in model.TestimonialInput) (*model.Testimonial, error)
	UpdateTestimonial(ctx context.Context, id string, in model.TestimonialInput) error
	DeleteTestimonial(ctx context.Context, id string) error

	AdminCompanyInfo(ctx context.Context) (*model.CompanyInfo, error)
	UpdateCompanyInfo(ctx context.Context, info model.CompanyInfo) error

	ListContacts(ctx context.Context) ([]model.Contact, error)
	UpdateContactStatus(ctx context.Context, id string, status model.ContactStatus) error
	DeleteContact(ctx context.Context, id string) error
}

// ContentInvalidator drops cached public content after an admin change.
type ContentInvalidator interface {
	Invalidate(ctx context.Context)
}

// EventReader lists recent log events.
type EventReader interface {
	Recent(ctx context.Context, limit int) ([]store.Event, error)
}

// AdminHandler serves the admin panel.
type AdminHandler struct {
	api      AdminAPI
	content  ContentInvalidator
	events   EventReader
	renderer *render.Renderer
	flashes  Flasher

	Services     *CRUD[model.Service, model.ServiceInput]
	Pricing      *CRUD[model.PricingCategory, model.PricingInput]
	Testimonials *CRUD[model.Testimonial, model.TestimonialInput]
}

// NewAdminHandler creates a new AdminHandler. content and events may be nil.
func NewAdminHandler(api AdminAPI, content ContentInvalidator, events EventReader, renderer *render.Renderer, flashes Flasher) *AdminHandler {
	h := &AdminHandler{
		api:      api,
		content:  content,
		events:   events,
		renderer: renderer,
		flashes:  flashes,
	}
	h.Services = &CRUD[model.Service, model.ServiceInput]{h: h, res: h.servicesResource()}
	h.Pricing = &CRUD[model.PricingCategory, model.PricingInput]{h: h, res: h.pricingResource()}
	h.Testimonials = &CRUD[model.Testimonial, model.TestimonialInput]{h: h, res: h.testimonialsResource()}
	return h
}

// invalidate drops cached public content so the site shows the change.
func (h *AdminHandler) invalidate(ctx context.Context) {
	if h.content != nil {
		h.content.Invalidate(ctx)
	}
}

// Index redirects /admin to the dashboard.
func (h *AdminHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
}

// DashboardPage is the view model of the admin dashboard.
type DashboardPage struct {
	TotalContacts     int
	PendingContacts   int
	ActiveServices    int
	PricingCategories int
	Testimonials      int
	RecentContacts    []model.Contact
	Events            []store.Event
}

// Dashboard renders totals, pending leads and recent activity. The four
// collections load concurrently; a failed one leaves its card at zero.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		contacts     []model.Contact
		services     []model.Service
		pricing      []model.PricingCategory
		testimonials []model.Testimonial
		errs         [4]error
	)

	var g errgroup.Group
	g.Go(func() error { contacts, errs[0] = h.api.ListContacts(ctx); return nil })
	g.Go(func() error { services, errs[1] = h.api.ListServices(ctx); return nil })
	g.Go(func() error { pricing, errs[2] = h.api.ListPricing(ctx); return nil })
	g.Go(func() error { testimonials, errs[3] = h.api.ListTestimonials(ctx); return nil })
	_ = g.Wait()

	data := render.TemplateData{Title: titleDashboard}
	if err := errors.Join(errs[:]...); err != nil {
		done, _ := apiFailure(w, r, h.flashes, err, msgDashboardPartial, RouteDashboard)
		if done {
			return
		}
		data.Flash = msgDashboardPartial
		data.FlashType = session.FlashError
	}

	page := DashboardPage{
		TotalContacts:     len(contacts),
		PricingCategories: len(pricing),
		Testimonials:      len(testimonials),
		RecentContacts:    recentContacts(contacts, dashboardRecentContacts),
	}
	for _, c := range contacts {
		if c.Status == model.StatusPending {
			page.PendingContacts++
		}
	}
	for _, s := range services {
		if s.Active {
			page.ActiveServices++
		}
	}

	if h.events != nil {
		events, err := h.events.Recent(ctx, dashboardRecentEvents)
		if err != nil {
			slog.WarnContext(ctx, "failed to load recent events", "error", err)
		}
		page.Events = events
	}

	data.Data = page
	renderPage(w, r, h.renderer, http.StatusOK, templateDashboard, data)
}

// recentContacts returns up to n contacts, newest first.
func recentContacts(contacts []model.Contact, n int) []model.Contact {
	sorted := slices.Clone(contacts)
	slices.SortStableFunc(sorted, func(a, b model.Contact) int {
		return b.CreatedAt.Compare(a.CreatedAt.Time)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// activeOptions is the status filter of collections with an active flag.
var activeOptions = []Option{
	{Value: listing.StatusAll, Label: "Todos"},
	{Value: listing.StatusActive, Label: "Ativos"},
	{Value: listing.StatusInactive, Label: "Inativos"},
}

func (h *AdminHandler) servicesResource() resource[model.Service, model.ServiceInput] {
	return resource[model.Service, model.ServiceInput]{
		route:        RouteServices,
		title:        titleServices,
		listTemplate: templateServices,
		formTemplate: templateServiceForm,
		options:      activeOptions,
		messages: resourceMessages{
			loadError:   "Erro ao carregar serviços",
			created:     "Serviço criado com sucesso",
			updated:     "Serviço atualizado com sucesso",
			deleted:     "Serviço excluído com sucesso",
			saveError:   "Erro ao salvar serviço",
			deleteError: "Erro ao excluir serviço",
			confirm:     "Tem certeza que deseja excluir este serviço?",
		},
		fetch:   h.api.ListServices,
		matcher: listing.ServiceMatcher,
		id:      func(s model.Service) string { return s.ID },
		label:   func(s model.Service) string { return s.Title },
		blank:   newServiceInput,
		toInput: serviceToInput,
		parse:   parseServiceInput,
		create: func(ctx context.Context, in model.ServiceInput) error {
			_, err := h.api.CreateService(ctx, in)
			return err
		},
		update: h.api.UpdateService,
		remove: h.api.DeleteService,
	}
}

func (h *AdminHandler) pricingResource() resource[model.PricingCategory, model.PricingInput] {
	return resource[model.PricingCategory, model.PricingInput]{
		route:        RoutePricing,
		title:        titlePricing,
		listTemplate: templatePricing,
		formTemplate: templatePricingForm,
		options:      activeOptions,
		messages: resourceMessages{
			loadError:   "Erro ao carregar preços",
			created:     "Categoria de preços criada com sucesso",
			updated:     "Categoria de preços atualizada com sucesso",
			deleted:     "Categoria de preços excluída com sucesso",
			saveError:   "Erro ao salvar categoria de preços",
			deleteError: "Erro ao excluir categoria de preços",
			confirm:     "Tem certeza que deseja excluir esta categoria de preços?",
		},
		fetch:   h.api.ListPricing,
		matcher: listing.PricingMatcher,
		id:      func(p model.PricingCategory) string { return p.ID },
		label:   func(p model.PricingCategory) string { return p.Category },
		blank:   newPricingInput,
		toInput: pricingToInput,
		parse:   parsePricingInput,
		create: func(ctx context.Context, in model.PricingInput) error {
			_, err := h.api.CreatePricing(ctx, in)
			return err
		},
		update: h.api.UpdatePricing,
		remove: h.api.DeletePricing,
	}
}

// ratingOptions is the status filter of testimonials.
var ratingOptions = []Option{
	{Value: listing.StatusAll, Label: "Todas as notas"},
	{Value: "5", Label: "5 estrelas"},
	{Value: "4", Label: "4 estrelas"},
	{Value: "3", Label: "3 estrelas"},
	{Value: "2", Label: "2 estrelas"},
	{Value: "1", Label: "1 estrela"},
}

func (h *AdminHandler) testimonialsResource() resource[model.Testimonial, model.TestimonialInput] {
	return resource[model.Testimonial, model.TestimonialInput]{
		route:        RouteTestimonials,
		title:        titleTestimonials,
		listTemplate: templateTestimonials,
		formTemplate: templateTestimonialForm,
		options:      ratingOptions,
		messages: resourceMessages{
			loadError:   "Erro ao carregar depoimentos",
			created:     "Depoimento criado com sucesso",
			updated:     "Depoimento atualizado com sucesso",
			deleted:     "Depoimento excluído com sucesso",
			saveError:   "Erro ao salvar depoimento",
			deleteError: "Erro ao excluir depoimento",
			confirm:     "Tem certeza que deseja excluir este depoimento?",
		},
		fetch:   h.api.ListTestimonials,
		matcher: listing.TestimonialMatcher,
		id:      func(t model.Testimonial) string { return t.ID },
		label:   func(t model.Testimonial) string { return t.Name },
		blank:   newTestimonialInput,
		toInput: testimonialToInput,
		parse:   parseTestimonialInput,
		create: func(ctx context.Context, in model.TestimonialInput) error {
			_, err := h.api.CreateTestimonial(ctx, in)
			return err
		},
		update: h.api.UpdateTestimonial,
		remove: h.api.DeleteTestimonial,
	}
}

var _ AdminAPI = (*apiclient.Client)(nil)
