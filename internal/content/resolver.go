// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content resolves the public site sections from live backend data,
// substituting the bundled snapshot per section when the backend fails.
package content

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/cache"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// Source tells where a section's data came from.
type Source string

// Sources
const (
	SourceLive     Source = "live"
	SourceSnapshot Source = "snapshot"
)

// Cache keys for live sections.
const (
	keyServices     = "content:services"
	keyPricing      = "content:pricing"
	keyTestimonials = "content:testimonials"
	keyCompany      = "content:company"
)

// Section is one resolved section. Data comes wholly from Source.
type Section[T any] struct {
	Data    T
	Source  Source
	Version string // snapshot version when Source is SourceSnapshot
}

// Home is every section of the public home page.
type Home struct {
	Company      Section[model.CompanyInfo]
	Services     Section[[]model.Service]
	Pricing      Section[[]model.PricingCategory]
	Testimonials Section[[]model.Testimonial]
}

// Degraded reports whether any section fell back to the snapshot.
func (h Home) Degraded() bool {
	return h.Company.Source == SourceSnapshot ||
		h.Services.Source == SourceSnapshot ||
		h.Pricing.Source == SourceSnapshot ||
		h.Testimonials.Source == SourceSnapshot
}

// Fetcher is the subset of the API client used for public content.
type Fetcher interface {
	Services(ctx context.Context) ([]model.Service, error)
	Pricing(ctx context.Context) ([]model.PricingCategory, error)
	Testimonials(ctx context.Context) ([]model.Testimonial, error)
	CompanyInfo(ctx context.Context) (*model.CompanyInfo, error)
}

// Resolver applies the live-then-snapshot policy to each section.
type Resolver struct {
	api      Fetcher
	snapshot *Snapshot
	logger   *slog.Logger

	services     *cache.TypedCache[[]model.Service]
	pricing      *cache.TypedCache[[]model.PricingCategory]
	testimonials *cache.TypedCache[[]model.Testimonial]
	company      *cache.TypedCache[model.CompanyInfo]
}

// NewResolver creates a resolver. Live results are cached in c for ttl.
func NewResolver(api Fetcher, snapshot *Snapshot, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		api:          api,
		snapshot:     snapshot,
		logger:       logger,
		services:     cache.NewTypedCache[[]model.Service](c, ttl),
		pricing:      cache.NewTypedCache[[]model.PricingCategory](c, ttl),
		testimonials: cache.NewTypedCache[[]model.Testimonial](c, ttl),
		company:      cache.NewTypedCache[model.CompanyInfo](c, ttl),
	}
}

// SnapshotVersion returns the bundled snapshot version.
func (r *Resolver) SnapshotVersion() string {
	return r.snapshot.Version
}

// Services resolves the services section.
func (r *Resolver) Services(ctx context.Context) Section[[]model.Service] {
	return resolve(ctx, r, "services", r.services, keyServices, r.api.Services, r.snapshot.Services)
}

// Pricing resolves the pricing section.
func (r *Resolver) Pricing(ctx context.Context) Section[[]model.PricingCategory] {
	return resolve(ctx, r, "pricing", r.pricing, keyPricing, r.api.Pricing, r.snapshot.Pricing)
}

// Testimonials resolves the testimonials section.
func (r *Resolver) Testimonials(ctx context.Context) Section[[]model.Testimonial] {
	return resolve(ctx, r, "testimonials", r.testimonials, keyTestimonials, r.api.Testimonials, r.snapshot.Testimonials)
}

// Company resolves the company profile.
func (r *Resolver) Company(ctx context.Context) Section[model.CompanyInfo] {
	return resolve(ctx, r, "company", r.company, keyCompany, r.fetchCompany, r.snapshot.Company)
}

func (r *Resolver) fetchCompany(ctx context.Context) (model.CompanyInfo, error) {
	info, err := r.api.CompanyInfo(ctx)
	if err != nil {
		return model.CompanyInfo{}, err
	}
	return *info, nil
}

// Home resolves all sections concurrently.
func (r *Resolver) Home(ctx context.Context) Home {
	var h Home
	var g errgroup.Group
	g.Go(func() error { h.Company = r.Company(ctx); return nil })
	g.Go(func() error { h.Services = r.Services(ctx); return nil })
	g.Go(func() error { h.Pricing = r.Pricing(ctx); return nil })
	g.Go(func() error { h.Testimonials = r.Testimonials(ctx); return nil })
	_ = g.Wait()
	return h
}

// Warm fetches every section from the backend and refreshes the cache.
// Sections that fail keep their previous cache entry.
func (r *Resolver) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return warm(gctx, r.services, keyServices, r.api.Services) })
	g.Go(func() error { return warm(gctx, r.pricing, keyPricing, r.api.Pricing) })
	g.Go(func() error { return warm(gctx, r.testimonials, keyTestimonials, r.api.Testimonials) })
	g.Go(func() error { return warm(gctx, r.company, keyCompany, r.fetchCompany) })
	return g.Wait()
}

// Invalidate drops cached live data so the next request refetches.
func (r *Resolver) Invalidate(ctx context.Context) {
	errs := errors.Join(
		r.services.Delete(ctx, keyServices),
		r.pricing.Delete(ctx, keyPricing),
		r.testimonials.Delete(ctx, keyTestimonials),
		r.company.Delete(ctx, keyCompany),
	)
	if errs != nil {
		r.logger.Warn("failed to invalidate content cache", "error", errs)
	}
}

func resolve[T any](
	ctx context.Context,
	r *Resolver,
	name string,
	tc *cache.TypedCache[T],
	key string,
	fetch func(context.Context) (T, error),
	fallback T,
) Section[T] {
	data, err := tc.GetOrSet(ctx, key, fetch)
	if err != nil {
		r.logger.Warn("serving snapshot content",
			"section", name,
			"version", r.snapshot.Version,
			"error", err)
		return Section[T]{Data: fallback, Source: SourceSnapshot, Version: r.snapshot.Version}
	}
	return Section[T]{Data: data, Source: SourceLive}
}

func warm[T any](ctx context.Context, tc *cache.TypedCache[T], key string, fetch func(context.Context) (T, error)) error {
	data, err := fetch(ctx)
	if err != nil {
		return err
	}
	return tc.Set(ctx, key, data)
}
