// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// formBool reads a checkbox.
func formBool(r *http.Request, name string) bool {
	switch r.PostFormValue(name) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func formText(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

// splitLines returns the non-blank trimmed lines of s.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func parseServiceInput(r *http.Request) model.ServiceInput {
	return model.ServiceInput{
		Title:       formText(r, "title"),
		Description: formText(r, "description"),
		Icon:        model.Icon(formText(r, "icon")),
		Features:    splitLines(r.PostFormValue("features")),
		Active:      formBool(r, "active"),
	}
}

func serviceToInput(s model.Service) model.ServiceInput {
	return model.ServiceInput{
		Title:       s.Title,
		Description: s.Description,
		Icon:        s.IconValue(),
		Features:    s.Features,
		Active:      s.Active,
	}
}

func newServiceInput() model.ServiceInput {
	return model.ServiceInput{Icon: model.DefaultIcon, Active: true}
}

// parsePricingInput reads the repeated item_name, item_price and
// item_description fields. Rows left entirely blank are skipped.
func parsePricingInput(r *http.Request) model.PricingInput {
	names := r.PostForm["item_name"]
	prices := r.PostForm["item_price"]
	descriptions := r.PostForm["item_description"]

	in := model.PricingInput{
		Category: formText(r, "category"),
		Active:   formBool(r, "active"),
	}
	for i := range names {
		item := model.PricingItem{
			Name:        strings.TrimSpace(names[i]),
			Price:       strings.TrimSpace(valueAt(prices, i)),
			Description: strings.TrimSpace(valueAt(descriptions, i)),
		}
		if item.Name == "" && item.Price == "" && item.Description == "" {
			continue
		}
		in.Items = append(in.Items, item)
	}
	return in
}

func valueAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func pricingToInput(p model.PricingCategory) model.PricingInput {
	return model.PricingInput{
		Category: p.Category,
		Items:    append([]model.PricingItem(nil), p.Items...),
		Active:   p.Active,
	}
}

func newPricingInput() model.PricingInput {
	return model.PricingInput{Active: true}
}

func parseTestimonialInput(r *http.Request) model.TestimonialInput {
	rating, err := strconv.Atoi(formText(r, "rating"))
	if err != nil {
		rating = 0
	}
	return model.TestimonialInput{
		Name:     formText(r, "name"),
		Location: formText(r, "location"),
		Rating:   rating,
		Text:     formText(r, "text"),
		Active:   formBool(r, "active"),
	}
}

func testimonialToInput(t model.Testimonial) model.TestimonialInput {
	return model.TestimonialInput{
		Name:     t.Name,
		Location: t.Location,
		Rating:   t.Rating,
		Text:     t.Text,
		Active:   t.Active,
	}
}

func newTestimonialInput() model.TestimonialInput {
	return model.TestimonialInput{Rating: model.MaxRating, Active: true}
}

func parseCompanyInfo(r *http.Request) model.CompanyInfo {
	return model.CompanyInfo{
		Name:         formText(r, "name"),
		Location:     formText(r, "location"),
		Phone:        formText(r, "phone"),
		WhatsApp:     formText(r, "whatsapp"),
		Email:        formText(r, "email"),
		Address:      formText(r, "address"),
		WorkingHours: formText(r, "workingHours"),
	}
}

func parseContactRequest(r *http.Request) model.ContactRequest {
	return model.ContactRequest{
		Name:    formText(r, "name"),
		Phone:   formText(r, "phone"),
		Email:   formText(r, "email"),
		Service: formText(r, "service"),
		Message: formText(r, "message"),
		Source:  model.SourceForm,
	}
}
