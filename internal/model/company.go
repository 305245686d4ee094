// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// CompanyInfo is the singleton business profile shown in the site footer.
type CompanyInfo struct {
	Name         string `json:"name" yaml:"name" validate:"required,max=200"`
	Location     string `json:"location" yaml:"location" validate:"max=200"`
	Phone        string `json:"phone" yaml:"phone" validate:"required,max=30"`
	WhatsApp     string `json:"whatsapp" yaml:"whatsapp" validate:"required,numeric,min=10,max=15"`
	Email        string `json:"email" yaml:"email" validate:"omitempty,email,max=254"`
	Address      string `json:"address" yaml:"address" validate:"max=300"`
	WorkingHours string `json:"workingHours" yaml:"workingHours" validate:"max=200"`
}

// DefaultCompanyInfo returns the profile used when none is stored.
func DefaultCompanyInfo() CompanyInfo {
	return CompanyInfo{
		Name:         "TM Higienização",
		Location:     "Bertioga - São Paulo",
		Phone:        "(13) 99704-3410",
		WhatsApp:     "5513997043410",
		Email:        "contato@tmhigienizacao.com.br",
		Address:      "Bertioga, São Paulo",
		WorkingHours: "Segunda a Sábado: 8h às 18h",
	}
}
