// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// PricingItem is one priced line within a category.
type PricingItem struct {
	Name        string `json:"name" yaml:"name" validate:"required,max=200"`
	Price       string `json:"price" yaml:"price" validate:"required,max=50"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" validate:"max=500"`
}

// PricingCategory groups pricing items.
type PricingCategory struct {
	ID        string        `json:"id" yaml:"id"`
	Category  string        `json:"category" yaml:"category"`
	Items     []PricingItem `json:"items" yaml:"items"`
	Active    bool          `json:"active" yaml:"active"`
	CreatedAt Timestamp     `json:"created_at,omitempty" yaml:"-"`
}

// PricingInput is the create/update payload for a pricing category.
type PricingInput struct {
	Category string        `json:"category" validate:"required,max=200"`
	Items    []PricingItem `json:"items" validate:"required,min=1,dive"`
	Active   bool          `json:"active"`
}
