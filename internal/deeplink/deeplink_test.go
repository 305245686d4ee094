// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package deeplink

import (
	"net/url"
	"strings"
	"testing"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

func decodedText(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse %q: %v", link, err)
	}
	return u.Query().Get("text")
}

func TestDigits(t *testing.T) {
	if got := Digits("(13) 99704-3410"); got != "13997043410" {
		t.Errorf("Digits() = %q, want %q", got, "13997043410")
	}
	if got := Digits("abc"); got != "" {
		t.Errorf("Digits() = %q, want empty", got)
	}
}

func TestWhatsApp(t *testing.T) {
	got := WhatsApp("55 13 99704-3410", "Olá mundo & cia")
	if !strings.HasPrefix(got, "https://wa.me/5513997043410?text=") {
		t.Fatalf("WhatsApp() = %q", got)
	}
	if strings.Contains(got, "+") {
		t.Errorf("spaces must be encoded as %%20, got %q", got)
	}
	if text := decodedText(t, got); text != "Olá mundo & cia" {
		t.Errorf("decoded text = %q", text)
	}

	if got := WhatsApp("5513997043410", ""); got != "https://wa.me/5513997043410" {
		t.Errorf("WhatsApp() without text = %q", got)
	}
}

func TestWhatsApp_EncodesLikeBrowsers(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Olá mundo", "Ol%C3%A1%20mundo"},
		{"Sofá (3 lugares)!", "Sof%C3%A1%20(3%20lugares)!"},
		{"*Novo* 'lead'", "*Novo*%20'lead'"},
		{"a+b=c & d/e?", "a%2Bb%3Dc%20%26%20d%2Fe%3F"},
		{"~_.-", "~_.-"},
		{"linha 1\nlinha 2", "linha%201%0Alinha%202"},
	}
	for _, tt := range tests {
		got := WhatsApp("5513997043410", tt.text)
		if want := "https://wa.me/5513997043410?text=" + tt.want; got != want {
			t.Errorf("WhatsApp(%q) = %q, want %q", tt.text, got, want)
		}
		if text := decodedText(t, got); text != tt.text {
			t.Errorf("decoded text = %q, want %q", text, tt.text)
		}
	}
}

func TestLeadMessage_CarriesAllFields(t *testing.T) {
	req := model.ContactRequest{
		Name:    "Ana",
		Phone:   "13999999999",
		Service: "Sofás e Poltronas",
		Message: "Orçamento",
	}
	link := WhatsApp("5513997043410", LeadMessage(req))
	text := decodedText(t, link)

	for _, want := range []string{"*Novo contato do site:*", "Nome: Ana", "Telefone: 13999999999", "Serviço: Sofás e Poltronas", "Mensagem: Orçamento"} {
		if !strings.Contains(text, want) {
			t.Errorf("lead message missing %q:\n%s", want, text)
		}
	}
}

func TestServiceQuote(t *testing.T) {
	got := ServiceQuote("Sofás e Poltronas")
	want := "Olá! Gostaria de solicitar um orçamento para sofás e poltronas."
	if got != want {
		t.Errorf("ServiceQuote() = %q, want %q", got, want)
	}
}

func TestPricingItemQuote(t *testing.T) {
	got := PricingItemQuote(model.PricingItem{Name: "Colchão Casal", Price: "R$ 80"})
	if got != "Olá! Gostaria de solicitar o serviço: Colchão Casal - R$ 80" {
		t.Errorf("PricingItemQuote() = %q", got)
	}
}

func TestWithCountryCode(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"(13) 99999-0000", "5513999990000"},
		{"13 3317-0000", "551333170000"},
		{"+55 13 99999-0000", "5513999990000"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := WithCountryCode(tt.phone, "55"); got != tt.want {
			t.Errorf("WithCountryCode(%q) = %q, want %q", tt.phone, got, tt.want)
		}
	}
}

func TestContactReply(t *testing.T) {
	c := model.Contact{Name: "Maria", Phone: "(13) 99999-0000"}
	link := ContactReply(c, "55")
	if !strings.HasPrefix(link, "https://wa.me/5513999990000?text=") {
		t.Errorf("ContactReply() = %q", link)
	}
	if text := decodedText(t, link); !strings.HasPrefix(text, "Olá Maria!") {
		t.Errorf("reply text = %q", text)
	}
}

func TestTelAndMailto(t *testing.T) {
	if got := Tel("(13) 99704-3410"); got != "tel:13997043410" {
		t.Errorf("Tel() = %q", got)
	}
	if got := Tel("+55 13 99704-3410"); got != "tel:+5513997043410" {
		t.Errorf("Tel() = %q", got)
	}
	if got := Mailto(" contato@tmhigienizacao.com.br "); got != "mailto:contato@tmhigienizacao.com.br" {
		t.Errorf("Mailto() = %q", got)
	}
}
