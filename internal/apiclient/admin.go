// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// Login exchanges credentials for a bearer token. The token is returned,
// not stored.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (string, error) {
	var tok model.TokenResponse
	if err := c.call(ctx, http.MethodPost, "/admin/login", false, creds, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: login returned no access token", ErrInvalidResponse)
	}
	return tok.AccessToken, nil
}

// Verify checks the session token and returns the admin it belongs to.
func (c *Client) Verify(ctx context.Context) (*model.User, error) {
	var resp model.VerifyResponse
	if err := c.call(ctx, http.MethodGet, "/admin/verify", true, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == "" || (resp.Valid != nil && !*resp.Valid) {
		return nil, &APIError{Status: http.StatusUnauthorized, Detail: "token not valid"}
	}
	return &model.User{Username: resp.User}, nil
}

// ListServices returns every service including inactive ones.
func (c *Client) ListServices(ctx context.Context) ([]model.Service, error) {
	return getList[model.Service](ctx, c, "/admin/services", "services", true)
}

// CreateService creates a service.
func (c *Client) CreateService(ctx context.Context, in model.ServiceInput) (*model.Service, error) {
	var out model.Service
	if err := c.call(ctx, http.MethodPost, "/admin/services", true, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateService replaces the editable fields of a service.
func (c *Client) UpdateService(ctx context.Context, id string, in model.ServiceInput) error {
	return c.call(ctx, http.MethodPut, "/admin/services/"+pathID(id), true, in, nil)
}

// DeleteService deletes a service.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/admin/services/"+pathID(id), true, nil, nil)
}

// ListPricing returns every pricing category.
func (c *Client) ListPricing(ctx context.Context) ([]model.PricingCategory, error) {
	return getList[model.PricingCategory](ctx, c, "/admin/pricing", "pricing", true)
}

// CreatePricing creates a pricing category.
func (c *Client) CreatePricing(ctx context.Context, in model.PricingInput) (*model.PricingCategory, error) {
	var out model.PricingCategory
	if err := c.call(ctx, http.MethodPost, "/admin/pricing", true, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePricing replaces a pricing category.
func (c *Client) UpdatePricing(ctx context.Context, id string, in model.PricingInput) error {
	return c.call(ctx, http.MethodPut, "/admin/pricing/"+pathID(id), true, in, nil)
}

// DeletePricing deletes a pricing category.
func (c *Client) DeletePricing(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/admin/pricing/"+pathID(id), true, nil, nil)
}

// ListTestimonials returns every testimonial.
func (c *Client) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	return getList[model.Testimonial](ctx, c, "/admin/testimonials", "testimonials", true)
}

// CreateTestimonial creates a testimonial.
func (c *Client) CreateTestimonial(ctx context.Context, in model.TestimonialInput) (*model.Testimonial, error) {
	var out model.Testimonial
	if err := c.call(ctx, http.MethodPost, "/admin/testimonials", true, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTestimonial replaces a testimonial.
func (c *Client) UpdateTestimonial(ctx context.Context, id string, in model.TestimonialInput) error {
	return c.call(ctx, http.MethodPut, "/admin/testimonials/"+pathID(id), true, in, nil)
}

// DeleteTestimonial deletes a testimonial.
func (c *Client) DeleteTestimonial(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/admin/testimonials/"+pathID(id), true, nil, nil)
}

// AdminCompanyInfo returns the stored company profile, or the defaults
// when none has been saved yet.
func (c *Client) AdminCompanyInfo(ctx context.Context) (*model.CompanyInfo, error) {
	return c.company(ctx, "/admin/company-info", true)
}

// UpdateCompanyInfo replaces the company profile.
func (c *Client) UpdateCompanyInfo(ctx context.Context, info model.CompanyInfo) error {
	return c.call(ctx, http.MethodPut, "/admin/company-info", true, info, nil)
}

// ListContacts returns every lead, newest first.
func (c *Client) ListContacts(ctx context.Context) ([]model.Contact, error) {
	return getList[model.Contact](ctx, c, "/admin/contacts", "contacts", true)
}

// UpdateContactStatus changes the status of a lead.
func (c *Client) UpdateContactStatus(ctx context.Context, id string, status model.ContactStatus) error {
	body := model.ContactStatusUpdate{Status: status}
	return c.call(ctx, http.MethodPut, "/admin/contacts/"+pathID(id)+"/status", true, body, nil)
}

// DeleteContact deletes a lead.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/admin/contacts/"+pathID(id), true, nil, nil)
}
