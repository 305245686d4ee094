// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

func TestBuildHomeMeta(t *testing.T) {
	company := model.DefaultCompanyInfo()
	site := SiteConfig{SiteURL: "https://tm.example", DefaultOGImage: "/static/img/og.jpg"}

	meta := BuildHomeMeta("TM Higienização", company, site)

	if meta.Title != "TM Higienização" || meta.OGTitle != meta.Title {
		t.Errorf("Title = %q, OGTitle = %q", meta.Title, meta.OGTitle)
	}
	if !strings.HasSuffix(meta.Description, "em Bertioga - São Paulo.") {
		t.Errorf("Description = %q, want location suffix", meta.Description)
	}
	if meta.Canonical != "https://tm.example/" || meta.OGURL != meta.Canonical {
		t.Errorf("Canonical = %q, OGURL = %q", meta.Canonical, meta.OGURL)
	}
	if meta.OGImage != "https://tm.example/static/img/og.jpg" {
		t.Errorf("OGImage = %q", meta.OGImage)
	}
	if meta.OGSiteName != company.Name {
		t.Errorf("OGSiteName = %q", meta.OGSiteName)
	}
	if meta.Robots != "index,follow" {
		t.Errorf("Robots = %q", meta.Robots)
	}
}

func TestBuildHomeMeta_NoIndexAndCustomDescription(t *testing.T) {
	site := SiteConfig{SiteURL: "https://staging.example", SiteDescription: "Limpeza de sofás", NoIndex: true}

	meta := BuildHomeMeta("TM", model.CompanyInfo{Name: "TM"}, site)

	if meta.Description != "Limpeza de sofás" {
		t.Errorf("Description = %q", meta.Description)
	}
	if meta.Robots != "noindex,nofollow" {
		t.Errorf("Robots = %q", meta.Robots)
	}
	if meta.OGImage != "" {
		t.Errorf("OGImage = %q, want empty", meta.OGImage)
	}
}

func TestSiteConfigWithURL(t *testing.T) {
	if got := (SiteConfig{}).WithURL("http://localhost:8080/").SiteURL; got != "http://localhost:8080" {
		t.Errorf("derived SiteURL = %q", got)
	}
	if got := (SiteConfig{SiteURL: "https://tm.example"}).WithURL("http://other").SiteURL; got != "https://tm.example" {
		t.Errorf("configured SiteURL replaced: %q", got)
	}
}

func TestBuildLocalBusinessSchema(t *testing.T) {
	company := model.DefaultCompanyInfo()
	meta := BuildHomeMeta("TM", company, SiteConfig{SiteURL: "https://tm.example"})
	services := []model.Service{{Title: "Sofás", Description: "Limpeza <profunda>"}}
	testimonials := []model.Testimonial{{Rating: 5}, {Rating: 4}}

	js := string(BuildLocalBusinessSchema(meta, company, services, testimonials))

	if strings.Contains(js, "<") {
		t.Errorf("schema must not contain raw '<': %s", js)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(js), &got); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if got["@type"] != "LocalBusiness" || got["name"] != company.Name {
		t.Errorf("type/name = %v/%v", got["@type"], got["name"])
	}
	if got["url"] != "https://tm.example/" {
		t.Errorf("url = %v", got["url"])
	}

	rating := got["aggregateRating"].(map[string]any)
	if rating["ratingValue"] != "4.5" || rating["reviewCount"] != float64(2) {
		t.Errorf("aggregateRating = %v", rating)
	}

	catalog := got["hasOfferCatalog"].(map[string]any)
	items := catalog["itemListElement"].([]any)
	if len(items) != 1 {
		t.Fatalf("offers = %d, want 1", len(items))
	}
	offered := items[0].(map[string]any)["itemOffered"].(map[string]any)
	if offered["name"] != "Sofás" || offered["description"] != "Limpeza <profunda>" {
		t.Errorf("itemOffered = %v", offered)
	}
}

func TestBuildLocalBusinessSchema_Minimal(t *testing.T) {
	js := string(BuildLocalBusinessSchema(Meta{}, model.CompanyInfo{Name: "TM"}, nil, nil))

	for _, key := range []string{"aggregateRating", "hasOfferCatalog", "address"} {
		if strings.Contains(js, key) {
			t.Errorf("schema should omit %s: %s", key, js)
		}
	}
}

func TestFormatRating(t *testing.T) {
	tests := map[float64]string{5: "5", 4.5: "4.5", 4.666: "4.7", 0: "0"}
	for in, want := range tests {
		if got := formatRating(in); got != want {
			t.Errorf("formatRating(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateText(t *testing.T) {
	short := "Higienização de sofás"
	if got := truncateText(short, 160); got != short {
		t.Errorf("truncateText(short) = %q", got)
	}

	long := strings.Repeat("colchão ", 30)
	got := truncateText(long, 50)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncateText(long) = %q, want ellipsis", got)
	}
	if n := len([]rune(strings.TrimSuffix(got, "..."))); n > 50 {
		t.Errorf("truncated length = %d runes, want <= 50", n)
	}
}

func TestMakeAbsoluteURL(t *testing.T) {
	tests := []struct {
		url, site, want string
	}{
		{"", "https://tm.example", ""},
		{"https://cdn.example/og.jpg", "https://tm.example", "https://cdn.example/og.jpg"},
		{"/static/og.jpg", "https://tm.example/", "https://tm.example/static/og.jpg"},
		{"static/og.jpg", "https://tm.example", "https://tm.example/static/og.jpg"},
	}
	for _, tt := range tests {
		if got := makeAbsoluteURL(tt.url, tt.site); got != tt.want {
			t.Errorf("makeAbsoluteURL(%q, %q) = %q, want %q", tt.url, tt.site, got, tt.want)
		}
	}
}
