// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds meta tags, structured data, robots.txt and the sitemap
// for the public site.
package seo

import (
	"encoding/json"
	"html/template"
	"strconv"
	"strings"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// DefaultDescription is used when no site description is configured.
const DefaultDescription = "Higienização profissional de estofados, colchões, tapetes e bancos automotivos"

// Meta holds all SEO meta tag data for a page.
type Meta struct {
	Title         string // Page title (for <title> tag)
	Description   string // Meta description
	Canonical     string // Canonical URL
	OGTitle       string // Open Graph title
	OGDescription string // Open Graph description
	OGImage       string // Open Graph image URL (absolute)
	OGType        string // Open Graph type
	OGSiteName    string // Open Graph site name
	OGURL         string // Open Graph URL
	OGLocale      string // Open Graph locale
	Robots        string // Robots directive (index,follow / noindex,nofollow)
}

// SiteConfig contains site-wide settings for SEO.
type SiteConfig struct {
	// SiteURL is the public origin, e.g. https://tmhigienizacao.com.br.
	// When empty it is derived from the request.
	SiteURL         string
	SiteDescription string
	DefaultOGImage  string
	// NoIndex asks crawlers to skip the whole site (staging).
	NoIndex bool
}

// WithURL returns a copy of the config using siteURL when none is set.
func (c SiteConfig) WithURL(siteURL string) SiteConfig {
	if c.SiteURL == "" {
		c.SiteURL = siteURL
	}
	c.SiteURL = strings.TrimSuffix(c.SiteURL, "/")
	return c
}

// BuildHomeMeta creates the meta tags of the home page.
func BuildHomeMeta(title string, company model.CompanyInfo, site SiteConfig) Meta {
	description := site.SiteDescription
	if description == "" {
		description = DefaultDescription
		if company.Location != "" {
			description += " em " + company.Location
		}
		description += "."
	}
	description = truncateText(description, 160)

	canonical := site.SiteURL + "/"
	meta := Meta{
		Title:         title,
		Description:   description,
		Canonical:     canonical,
		OGTitle:       title,
		OGDescription: description,
		OGType:        "website",
		OGSiteName:    company.Name,
		OGURL:         canonical,
		OGLocale:      "pt_BR",
		Robots:        buildRobotsDirective(site.NoIndex, site.NoIndex),
	}
	if site.DefaultOGImage != "" {
		meta.OGImage = makeAbsoluteURL(site.DefaultOGImage, site.SiteURL)
	}
	return meta
}

// buildRobotsDirective creates the robots meta content from noindex/nofollow flags.
func buildRobotsDirective(noIndex, noFollow bool) string {
	var parts []string

	if noIndex {
		parts = append(parts, "noindex")
	} else {
		parts = append(parts, "index")
	}

	if noFollow {
		parts = append(parts, "nofollow")
	} else {
		parts = append(parts, "follow")
	}

	return strings.Join(parts, ",")
}

// LocalBusinessSchema represents JSON-LD LocalBusiness structured data.
type LocalBusinessSchema struct {
	Context     string              `json:"@context"`
	Type        string              `json:"@type"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Image       string              `json:"image,omitempty"`
	Telephone   string              `json:"telephone,omitempty"`
	Email       string              `json:"email,omitempty"`
	AreaServed  string              `json:"areaServed,omitempty"`
	Address     *AddressSchema      `json:"address,omitempty"`
	Rating      *RatingSchema       `json:"aggregateRating,omitempty"`
	Catalog     *OfferCatalogSchema `json:"hasOfferCatalog,omitempty"`
}

// AddressSchema represents JSON-LD PostalAddress structured data.
type AddressSchema struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

// RatingSchema represents JSON-LD AggregateRating structured data.
type RatingSchema struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	ReviewCount int    `json:"reviewCount"`
	BestRating  int    `json:"bestRating"`
}

// OfferCatalogSchema lists the services offered.
type OfferCatalogSchema struct {
	Type  string        `json:"@type"`
	Name  string        `json:"name"`
	Items []OfferSchema `json:"itemListElement"`
}

// OfferSchema represents a JSON-LD Offer for a service.
type OfferSchema struct {
	Type        string        `json:"@type"`
	ItemOffered ServiceSchema `json:"itemOffered"`
}

// ServiceSchema represents JSON-LD Service structured data.
type ServiceSchema struct {
	Type        string `json:"@type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BuildLocalBusinessSchema creates the JSON-LD block of the home page.
func BuildLocalBusinessSchema(meta Meta, company model.CompanyInfo, services []model.Service, testimonials []model.Testimonial) template.JS {
	schema := LocalBusinessSchema{
		Context:     "https://schema.org",
		Type:        "LocalBusiness",
		Name:        company.Name,
		Description: meta.Description,
		URL:         meta.Canonical,
		Image:       meta.OGImage,
		Telephone:   company.Phone,
		Email:       company.Email,
		AreaServed:  company.Location,
	}

	if company.Address != "" || company.Location != "" {
		schema.Address = &AddressSchema{
			Type:            "PostalAddress",
			StreetAddress:   company.Address,
			AddressLocality: company.Location,
			AddressCountry:  "BR",
		}
	}

	if len(testimonials) > 0 {
		total := 0
		for _, t := range testimonials {
			total += t.Rating
		}
		schema.Rating = &RatingSchema{
			Type:        "AggregateRating",
			RatingValue: formatRating(float64(total) / float64(len(testimonials))),
			ReviewCount: len(testimonials),
			BestRating:  model.MaxRating,
		}
	}

	if len(services) > 0 {
		catalog := &OfferCatalogSchema{Type: "OfferCatalog", Name: "Serviços"}
		for _, s := range services {
			catalog.Items = append(catalog.Items, OfferSchema{
				Type: "Offer",
				ItemOffered: ServiceSchema{
					Type:        "Service",
					Name:        s.Title,
					Description: s.Description,
				},
			})
		}
		schema.Catalog = catalog
	}

	return marshalJSONLD(schema)
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
// json.Marshal escapes <, > and & so the result is safe inside <script>.
func marshalJSONLD(v any) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// formatRating keeps one decimal place and drops a trailing ".0".
func formatRating(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}

// truncateText truncates text to maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}

	truncated := string(runes[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
