// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook notifies an external endpoint about new leads.
package webhook

import (
	"time"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// Event types.
const (
	EventLeadCreated = "lead.created"
)

// Event represents a webhook event to be dispatched.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// LeadEventData is the payload of a lead.created event.
type LeadEventData struct {
	ContactID string `json:"contact_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
	Source    string `json:"source"`
	// ReplyURL opens a WhatsApp conversation with the lead.
	ReplyURL string `json:"reply_url,omitempty"`
}

// NewLeadEventData builds the payload of a submitted contact request.
func NewLeadEventData(contactID string, req model.ContactRequest, replyURL string) LeadEventData {
	return LeadEventData{
		ContactID: contactID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Service:   req.Service,
		Message:   req.Message,
		Source:    string(req.Source),
		ReplyURL:  replyURL,
	}
}
