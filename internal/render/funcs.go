// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/deeplink"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/uikit"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// Markdown renders backend-provided text as sanitized HTML.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}

// iconPaths holds the inner SVG markup of each service icon.
var iconPaths = map[model.Icon]string{
	model.IconSofa: `<path d="M20 9V6a2 2 0 0 0-2-2H6a2 2 0 0 0-2 2v3"/><path d="M2 11v5a2 2 0 0 0 2 2h16a2 2 0 0 0 2-2v-5a2 2 0 0 0-4 0v2H6v-2a2 2 0 0 0-4 0Z"/><path d="M4 18v2"/><path d="M20 18v2"/>`,
	model.IconBed:  `<path d="M2 4v16"/><path d="M2 8h18a2 2 0 0 1 2 2v10"/><path d="M2 17h20"/><path d="M6 8v9"/>`,
	model.IconHome: `<path d="m3 9 9-7 9 7v11a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2z"/><polyline points="9 22 9 12 15 12 15 22"/>`,
	model.IconCar:  `<path d="M19 17h2c.6 0 1-.4 1-1v-3c0-.9-.7-1.7-1.5-1.9C18.7 10.6 16 10 16 10s-1.3-1.4-2.2-2.3c-.5-.4-1.1-.7-1.8-.7H5c-.6 0-1.1.4-1.4.9l-1.4 2.9A3.7 3.7 0 0 0 2 12v4c0 .6.4 1 1 1h2"/><circle cx="7" cy="17" r="2"/><path d="M9 17h6"/><circle cx="17" cy="17" r="2"/>`,
	model.IconSun:  `<circle cx="12" cy="12" r="4"/><path d="M12 2v2"/><path d="M12 20v2"/><path d="m4.93 4.93 1.41 1.41"/><path d="m17.66 17.66 1.41 1.41"/><path d="M2 12h2"/><path d="M20 12h2"/><path d="m6.34 17.66-1.41 1.41"/><path d="m19.07 4.93-1.41 1.41"/>`,
}

// Icon returns the inline SVG for an icon tag. Unknown tags get the default icon.
func Icon(tag string) template.HTML {
	icon := model.ParseIcon(tag)
	return template.HTML(`<svg class="icon icon-` + string(icon) + `" xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">` +
		iconPaths[icon] + `</svg>`)
}

// Stars returns one entry per star slot, true when filled.
func Stars(rating int) []bool {
	stars := make([]bool, model.MaxRating)
	for i := range stars {
		stars[i] = i < rating
	}
	return stars
}

// TemplateFuncs returns the generic helpers merged with the site helpers.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()

	funcs["icon"] = Icon
	funcs["stars"] = Stars
	funcs["markdown"] = Markdown
	funcs["statusLabel"] = func(s model.ContactStatus) string {
		return s.Label()
	}
	funcs["contactStatuses"] = func() []model.ContactStatus {
		return model.ContactStatuses
	}
	funcs["icons"] = func() []model.Icon {
		return model.Icons
	}

	// Deep links. tel: and mailto: are not in html/template's safe URL list.
	funcs["waLink"] = func(number, text string) template.URL {
		return template.URL(deeplink.WhatsApp(number, text))
	}
	funcs["telLink"] = func(phone string) template.URL {
		return template.URL(deeplink.Tel(phone))
	}
	funcs["mailLink"] = func(email string) template.URL {
		return template.URL(deeplink.Mailto(email))
	}
	funcs["serviceQuote"] = deeplink.ServiceQuote
	funcs["pricingQuote"] = deeplink.PricingItemQuote
	funcs["replyLink"] = func(c model.Contact) template.URL {
		return template.URL(deeplink.ContactReply(c, r.countryCode))
	}
	funcs["quoteMessage"] = func() string { return deeplink.QuoteMessage }
	funcs["customQuoteMessage"] = func() string { return deeplink.CustomQuoteMessage }
	funcs["infoMessage"] = func() string { return deeplink.InfoMessage }

	return funcs
}
