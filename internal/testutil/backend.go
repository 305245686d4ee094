// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// Default fake backend credentials.
const (
	DefaultUsername = "admin"
	DefaultPassword = "Limpeza@2025"
)

// Request is one call recorded by the fake backend.
type Request struct {
	Method     string
	Path       string
	Authorized bool
	Body       []byte
}

// Fault replaces the response of a matching route.
type Fault struct {
	Status int
	Detail string
	// Drop closes the connection without a response.
	Drop bool
}

// Backend is an in-memory implementation of the REST backend.
type Backend struct {
	Server *httptest.Server

	secret       []byte
	username     string
	passwordHash string

	mu           sync.Mutex
	services     []model.Service
	pricing      []model.PricingCategory
	testimonials []model.Testimonial
	contacts     []model.Contact
	company      *model.CompanyInfo
	requests     []Request
	faults       map[string]Fault
	revoked      bool
}

// NewBackend starts a fake backend seeded with one active record of each
// collection. It is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	hash, err := HashPassword(DefaultPassword)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	company := model.DefaultCompanyInfo()
	b := &Backend{
		secret:       []byte(uuid.NewString()),
		username:     DefaultUsername,
		passwordHash: hash,
		company:      &company,
		faults:       make(map[string]Fault),
		services: []model.Service{{
			ID:          uuid.NewString(),
			Title:       "Higienização de Sofás",
			Description: "Limpeza profunda de sofás e poltronas",
			Icon:        string(model.IconSofa),
			Features:    []string{"Remove ácaros", "Secagem rápida"},
			Active:      true,
			CreatedAt:   model.Timestamp{Time: time.Now().UTC()},
		}},
		pricing: []model.PricingCategory{{
			ID:       uuid.NewString(),
			Category: "Sofás",
			Items: []model.PricingItem{
				{Name: "Sofá 2 lugares", Price: "R$ 150,00"},
				{Name: "Sofá 3 lugares", Price: "R$ 200,00", Description: "Inclui almofadas"},
			},
			Active:    true,
			CreatedAt: model.Timestamp{Time: time.Now().UTC()},
		}},
		testimonials: []model.Testimonial{{
			ID:        uuid.NewString(),
			Name:      "Maria Silva",
			Location:  "Riviera de São Lourenço",
			Rating:    5,
			Text:      "Serviço excelente, sofá ficou como novo!",
			Active:    true,
			CreatedAt: model.Timestamp{Time: time.Now().UTC()},
		}},
	}

	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the backend base URL (without /api).
func (b *Backend) URL() string {
	return b.Server.URL
}

// Token issues a valid admin token.
func (b *Backend) Token(t *testing.T) string {
	t.Helper()
	tok, err := b.issueToken(b.username, time.Hour)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return tok
}

// RevokeTokens makes every authenticated call fail with 401.
func (b *Backend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked = true
}

// Fail injects a fault for method and path (relative to /api, e.g.
// "GET /services").
func (b *Backend) Fail(method, path string, f Fault) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[method+" "+path] = f
}

// ClearFaults removes every injected fault.
func (b *Backend) ClearFaults() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults = make(map[string]Fault)
}

// Requests returns the recorded calls.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many times method and path were called.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// ResetRequests clears the recorded calls.
func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

// Services returns the stored services.
func (b *Backend) Services() []model.Service {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Service(nil), b.services...)
}

// Pricing returns the stored pricing categories.
func (b *Backend) Pricing() []model.PricingCategory {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.PricingCategory(nil), b.pricing...)
}

// Testimonials returns the stored testimonials.
func (b *Backend) Testimonials() []model.Testimonial {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Testimonial(nil), b.testimonials...)
}

// Contacts returns the stored leads.
func (b *Backend) Contacts() []model.Contact {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Contact(nil), b.contacts...)
}

// Company returns the stored company info.
func (b *Backend) Company() model.CompanyInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.company
}

// AddContact stores a lead and returns it.
func (b *Backend) AddContact(c model.Contact) model.Contact {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = model.StatusPending
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = model.Timestamp{Time: time.Now().UTC()}
	}
	b.contacts = append(b.contacts, c)
	return c
}

func (b *Backend) issueToken(username string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
}

// authorize returns the admin named by the bearer token.
func (b *Backend) authorize(r *http.Request) (string, bool) {
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		return "", false
	}
	b.mu.Lock()
	revoked := b.revoked
	b.mu.Unlock()
	if revoked {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return b.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "TM Higienização API", "version": "1.0.0"})
		})
		r.Get("/services", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"services": activeOnly(b.Services(), func(s model.Service) bool { return s.Active })})
		})
		r.Get("/pricing", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"pricing": activeOnly(b.Pricing(), func(p model.PricingCategory) bool { return p.Active })})
		})
		r.Get("/testimonials", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"testimonials": activeOnly(b.Testimonials(), func(t model.Testimonial) bool { return t.Active })})
		})
		r.Get("/company-info", b.getCompany)
		r.Post("/contact", b.submitContact)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", b.login)
			r.Group(func(r chi.Router) {
				r.Use(b.requireToken)
				r.Get("/verify", func(w http.ResponseWriter, r *http.Request) {
					user, _ := b.authorize(r)
					writeJSON(w, http.StatusOK, map[string]any{"valid": true, "user": user})
				})

				r.Get("/services", func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, http.StatusOK, map[string]any{"services": b.Services()})
				})
				r.Post("/services", b.createService)
				r.Put("/services/{id}", b.updateService)
				r.Delete("/services/{id}", b.deleteService)

				r.Get("/pricing", func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, http.StatusOK, map[string]any{"pricing": b.Pricing()})
				})
				r.Post("/pricing", b.createPricing)
				r.Put("/pricing/{id}", b.updatePricing)
				r.Delete("/pricing/{id}", b.deletePricing)

				r.Get("/testimonials", func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, http.StatusOK, map[string]any{"testimonials": b.Testimonials()})
				})
				r.Post("/testimonials", b.createTestimonial)
				r.Put("/testimonials/{id}", b.updateTestimonial)
				r.Delete("/testimonials/{id}", b.deleteTestimonial)

				r.Get("/company-info", b.getCompany)
				r.Put("/company-info", b.updateCompany)

				r.Get("/contacts", func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, http.StatusOK, map[string]any{"contacts": b.Contacts()})
				})
				r.Put("/contacts/{id}/status", b.updateContactStatus)
				r.Delete("/contacts/{id}", b.deleteContact)
			})
		})
	})
	return r
}

// record logs the call and applies injected faults.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		path := strings.TrimPrefix(r.URL.Path, "/api")
		if path == "" {
			path = "/"
		}
		_, authorized := b.authorize(r)

		b.mu.Lock()
		b.requests = append(b.requests, Request{Method: r.Method, Path: path, Authorized: authorized, Body: body})
		fault, faulty := b.faults[r.Method+" "+path]
		b.mu.Unlock()

		if faulty {
			if fault.Drop {
				if hj, ok := w.(http.Hijacker); ok {
					if conn, _, err := hj.Hijack(); err == nil {
						_ = conn.Close()
						return
					}
				}
				panic(http.ErrAbortHandler)
			}
			writeJSON(w, fault.Status, map[string]string{"detail": fault.Detail})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := b.authorize(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid body"})
		return
	}
	ok, err := CheckPassword(creds.Password, b.passwordHash)
	if err != nil || !ok || creds.Username != b.username {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}
	tok, err := b.issueToken(creds.Username, time.Hour)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{AccessToken: tok, TokenType: "bearer"})
}

func (b *Backend) getCompany(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"company": b.Company()})
}

func (b *Backend) updateCompany(w http.ResponseWriter, r *http.Request) {
	var info model.CompanyInfo
	if !decode(w, r, &info) {
		return
	}
	b.mu.Lock()
	b.company = &info
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (b *Backend) submitContact(w http.ResponseWriter, r *http.Request) {
	var req model.ContactRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "name and phone are required"})
		return
	}
	c := b.AddContact(model.Contact{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Service: req.Service,
		Message: req.Message,
		Source:  req.Source,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Contato recebido com sucesso",
		"contact_id": c.ID,
	})
}

func (b *Backend) createService(w http.ResponseWriter, r *http.Request) {
	var in model.ServiceInput
	if !decode(w, r, &in) {
		return
	}
	s := model.Service{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Icon:        string(in.Icon),
		Features:    in.Features,
		Active:      in.Active,
		CreatedAt:   model.Timestamp{Time: time.Now().UTC()},
	}
	b.mu.Lock()
	b.services = append(b.services, s)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, s)
}

func (b *Backend) updateService(w http.ResponseWriter, r *http.Request) {
	var in model.ServiceInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.services {
		if b.services[i].ID == chi.URLParam(r, "id") {
			s := &b.services[i]
			s.Title, s.Description, s.Icon, s.Features, s.Active = in.Title, in.Description, string(in.Icon), in.Features, in.Active
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	notFound(w)
}

func (b *Backend) deleteService(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ok bool
	b.services, ok = without(b.services, chi.URLParam(r, "id"), func(s model.Service) string { return s.ID })
	respondDeleted(w, ok)
}

func (b *Backend) createPricing(w http.ResponseWriter, r *http.Request) {
	var in model.PricingInput
	if !decode(w, r, &in) {
		return
	}
	p := model.PricingCategory{
		ID:        uuid.NewString(),
		Category:  in.Category,
		Items:     in.Items,
		Active:    in.Active,
		CreatedAt: model.Timestamp{Time: time.Now().UTC()},
	}
	b.mu.Lock()
	b.pricing = append(b.pricing, p)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) updatePricing(w http.ResponseWriter, r *http.Request) {
	var in model.PricingInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.pricing {
		if b.pricing[i].ID == chi.URLParam(r, "id") {
			p := &b.pricing[i]
			p.Category, p.Items, p.Active = in.Category, in.Items, in.Active
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	notFound(w)
}

func (b *Backend) deletePricing(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ok bool
	b.pricing, ok = without(b.pricing, chi.URLParam(r, "id"), func(p model.PricingCategory) string { return p.ID })
	respondDeleted(w, ok)
}

func (b *Backend) createTestimonial(w http.ResponseWriter, r *http.Request) {
	var in model.TestimonialInput
	if !decode(w, r, &in) {
		return
	}
	t := model.Testimonial{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Location:  in.Location,
		Rating:    in.Rating,
		Text:      in.Text,
		Active:    in.Active,
		CreatedAt: model.Timestamp{Time: time.Now().UTC()},
	}
	b.mu.Lock()
	b.testimonials = append(b.testimonials, t)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, t)
}

func (b *Backend) updateTestimonial(w http.ResponseWriter, r *http.Request) {
	var in model.TestimonialInput
	if !decode(w, r, &in) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.testimonials {
		if b.testimonials[i].ID == chi.URLParam(r, "id") {
			t := &b.testimonials[i]
			t.Name, t.Location, t.Rating, t.Text, t.Active = in.Name, in.Location, in.Rating, in.Text, in.Active
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	notFound(w)
}

func (b *Backend) deleteTestimonial(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ok bool
	b.testimonials, ok = without(b.testimonials, chi.URLParam(r, "id"), func(t model.Testimonial) string { return t.ID })
	respondDeleted(w, ok)
}

func (b *Backend) updateContactStatus(w http.ResponseWriter, r *http.Request) {
	var body model.ContactStatusUpdate
	if !decode(w, r, &body) {
		return
	}
	if !body.Status.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid status"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.contacts {
		if b.contacts[i].ID == chi.URLParam(r, "id") {
			b.contacts[i].Status = body.Status
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	notFound(w)
}

func (b *Backend) deleteContact(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ok bool
	b.contacts, ok = without(b.contacts, chi.URLParam(r, "id"), func(c model.Contact) string { return c.ID })
	respondDeleted(w, ok)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var syntax *json.SyntaxError
		detail := "invalid body"
		if errors.As(err, &syntax) {
			detail = "malformed JSON"
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": detail})
		return false
	}
	return true
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found"})
}

func respondDeleted(w http.ResponseWriter, ok bool) {
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func without[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	for i, item := range items {
		if idOf(item) == id {
			return append(items[:i:i], items[i+1:]...), true
		}
	}
	return items, false
}

func activeOnly[T any](items []T, active func(T) bool) []T {
	out := []T{}
	for _, item := range items {
		if active(item) {
			out = append(out, item)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
