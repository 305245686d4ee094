// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"strconv"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// Service status keys
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ContactMatcher searches name, phone, email and message, and filters by
// lead status.
var ContactMatcher = Matcher[model.Contact]{
	Fields: func(c model.Contact) []string {
		return []string{c.Name, c.Phone, c.Email, c.Message}
	},
	Status: func(c model.Contact) string { return string(c.Status) },
}

// ServiceMatcher searches title and description, and filters by active flag.
var ServiceMatcher = Matcher[model.Service]{
	Fields: func(s model.Service) []string {
		return []string{s.Title, s.Description}
	},
	Status: func(s model.Service) string { return activeKey(s.Active) },
}

// PricingMatcher searches the category and item names, and filters by
// active flag.
var PricingMatcher = Matcher[model.PricingCategory]{
	Fields: func(p model.PricingCategory) []string {
		fields := make([]string, 0, len(p.Items)+1)
		fields = append(fields, p.Category)
		for _, item := range p.Items {
			fields = append(fields, item.Name)
		}
		return fields
	},
	Status: func(p model.PricingCategory) string { return activeKey(p.Active) },
}

// TestimonialMatcher searches name, location and text, and filters by rating.
var TestimonialMatcher = Matcher[model.Testimonial]{
	Fields: func(t model.Testimonial) []string {
		return []string{t.Name, t.Location, t.Text}
	},
	Status: func(t model.Testimonial) string { return strconv.Itoa(t.Rating) },
}

func activeKey(active bool) string {
	if active {
		return StatusActive
	}
	return StatusInactive
}
