// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package deeplink builds WhatsApp, telephone and e-mail links.
package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

const whatsAppBase = "https://wa.me/"

// Canned messages
const (
	QuoteMessage       = "Olá! Gostaria de solicitar um orçamento para higienização de estofados."
	CustomQuoteMessage = "Olá! Gostaria de solicitar um orçamento personalizado para higienização de estofados."
	InfoMessage        = "Olá! Vim através do site e gostaria de mais informações."
)

var lower = cases.Lower(language.BrazilianPortuguese)

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsApp returns a wa.me link that opens a chat with number prefilled
// with text. Text is percent-encoded the way browsers encode URI
// components.
func WhatsApp(number, text string) string {
	link := whatsAppBase + Digits(number)
	if text == "" {
		return link
	}
	return link + "?text=" + encodeComponent(text)
}

// LeadMessage summarizes a contact form submission for the company chat.
func LeadMessage(req model.ContactRequest) string {
	return fmt.Sprintf("*Novo contato do site:*\nNome: %s\nTelefone: %s\nEmail: %s\nServiço: %s\nMensagem: %s",
		req.Name, req.Phone, req.Email, req.Service, req.Message)
}

// ServiceQuote is the quote request for a single service.
func ServiceQuote(title string) string {
	return "Olá! Gostaria de solicitar um orçamento para " + lower.String(strings.TrimSpace(title)) + "."
}

// PricingItemQuote is the request for one priced item.
func PricingItemQuote(item model.PricingItem) string {
	return fmt.Sprintf("Olá! Gostaria de solicitar o serviço: %s - %s", item.Name, item.Price)
}

// ContactReplyMessage greets a lead by name.
func ContactReplyMessage(name string) string {
	return fmt.Sprintf("Olá %s! Recebemos sua mensagem através do site da TM Higienização e entramos em contato para ajudá-lo.", name)
}

// ContactReply links the admin to a chat with the lead. countryCode is
// prepended unless the number already carries it.
func ContactReply(c model.Contact, countryCode string) string {
	return WhatsApp(WithCountryCode(c.Phone, countryCode), ContactReplyMessage(c.Name))
}

// WithCountryCode returns the digits of phone prefixed with countryCode.
// Numbers long enough to already include a country code are kept as is.
func WithCountryCode(phone, countryCode string) string {
	digits := Digits(phone)
	cc := Digits(countryCode)
	if digits == "" || cc == "" {
		return digits
	}
	// National numbers are at most 11 digits (area code + 9-digit mobile).
	if len(digits) > 11 && strings.HasPrefix(digits, cc) {
		return digits
	}
	return cc + digits
}

// Tel returns a tel: URI. A leading + is preserved.
func Tel(phone string) string {
	phone = strings.TrimSpace(phone)
	prefix := ""
	if strings.HasPrefix(phone, "+") {
		prefix = "+"
	}
	return "tel:" + prefix + Digits(phone)
}

// Mailto returns a mailto: URI.
func Mailto(email string) string {
	return "mailto:" + (&url.URL{Opaque: strings.TrimSpace(email)}).String()
}

// componentMarks undoes the query escaping of characters that
// encodeURIComponent leaves alone, and writes spaces as %20.
var componentMarks = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent produces the same output as JavaScript's
// encodeURIComponent for UTF-8 input.
func encodeComponent(s string) string {
	return componentMarks.Replace(url.QueryEscape(s))
}
