// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// Status is the backend root response.
type Status struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Ping calls the backend root endpoint.
func (c *Client) Ping(ctx context.Context) (*Status, error) {
	var st Status
	if err := c.call(ctx, http.MethodGet, "/", false, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Services returns the active services.
func (c *Client) Services(ctx context.Context) ([]model.Service, error) {
	return getList[model.Service](ctx, c, "/services", "services", false)
}

// Pricing returns the active pricing categories.
func (c *Client) Pricing(ctx context.Context) ([]model.PricingCategory, error) {
	return getList[model.PricingCategory](ctx, c, "/pricing", "pricing", false)
}

// Testimonials returns the active testimonials.
func (c *Client) Testimonials(ctx context.Context) ([]model.Testimonial, error) {
	return getList[model.Testimonial](ctx, c, "/testimonials", "testimonials", false)
}

// CompanyInfo returns the public company profile.
func (c *Client) CompanyInfo(ctx context.Context) (*model.CompanyInfo, error) {
	return c.company(ctx, "/company-info", false)
}

func (c *Client) company(ctx context.Context, endpoint string, authed bool) (*model.CompanyInfo, error) {
	var payload struct {
		Company *model.CompanyInfo `json:"company"`
	}
	if err := c.call(ctx, http.MethodGet, endpoint, authed, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Company == nil {
		info := model.DefaultCompanyInfo()
		return &info, nil
	}
	return payload.Company, nil
}

// ContactReceipt acknowledges a lead submission.
type ContactReceipt struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ContactID string `json:"contact_id"`
}

// SubmitContact posts a lead from the public contact form.
func (c *Client) SubmitContact(ctx context.Context, req model.ContactRequest) (*ContactReceipt, error) {
	if req.Source == "" {
		req.Source = model.SourceForm
	}
	var receipt ContactReceipt
	if err := c.call(ctx, http.MethodPost, "/contact", false, req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}
