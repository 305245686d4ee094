// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Testimonial is a customer review.
type Testimonial struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Location  string    `json:"location" yaml:"location"`
	Rating    int       `json:"rating" yaml:"rating"`
	Text      string    `json:"text" yaml:"text"`
	Active    bool      `json:"active" yaml:"active"`
	CreatedAt Timestamp `json:"created_at,omitempty" yaml:"-"`
}

// TestimonialInput is the create/update payload for a testimonial.
type TestimonialInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location" validate:"required,max=100"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Text     string `json:"text" validate:"required,max=2000"`
	Active   bool   `json:"active"`
}
