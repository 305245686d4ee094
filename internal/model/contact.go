// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// ContactStatus is the manually tracked stage of a lead.
type ContactStatus string

// Contact statuses
const (
	StatusPending   ContactStatus = "pending"
	StatusContacted ContactStatus = "contacted"
	StatusConverted ContactStatus = "converted"
	StatusClosed    ContactStatus = "closed"
)

// ContactStatuses lists every status in workflow order.
var ContactStatuses = []ContactStatus{StatusPending, StatusContacted, StatusConverted, StatusClosed}

var statusLabels = map[ContactStatus]string{
	StatusPending:   "Pendente",
	StatusContacted: "Contatado",
	StatusConverted: "Convertido",
	StatusClosed:    "Fechado",
}

// UnknownStatusLabel is shown for statuses outside ContactStatuses.
const UnknownStatusLabel = "Desconhecido"

// Label returns the display label for s.
func (s ContactStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return UnknownStatusLabel
}

// Valid reports whether s is a known status.
func (s ContactStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Contact sources
const (
	SourceForm     = "form"
	SourceWhatsApp = "whatsapp"
	SourcePhone    = "phone"
)

// Contact is a visitor-submitted lead.
type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Email     string        `json:"email,omitempty"`
	Service   string        `json:"service,omitempty"`
	Message   string        `json:"message"`
	Source    string        `json:"source,omitempty"`
	Status    ContactStatus `json:"status"`
	CreatedAt Timestamp     `json:"created_at"`
}

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Phone   string `json:"phone" validate:"required,min=8,max=30"`
	Email   string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Service string `json:"service,omitempty" validate:"max=100"`
	Message string `json:"message" validate:"required,max=2000"`
	Source  string `json:"source,omitempty"`
}

// ContactStatusUpdate is the body of a status change.
type ContactStatusUpdate struct {
	Status ContactStatus `json:"status"`
}
