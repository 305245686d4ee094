// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/render"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
)

// CompanyPage is the view model of the company info form.
type CompanyPage struct {
	Loaded bool
	Input  model.CompanyInfo
	Errors FieldErrors
}

// Company renders the company info form.
func (h *AdminHandler) Company(w http.ResponseWriter, r *http.Request) {
	info, err := h.api.AdminCompanyInfo(r.Context())
	if err != nil {
		done, notice := apiFailure(w, r, h.flashes, err, msgCompanyLoadError, RouteCompany)
		if done {
			return
		}
		h.renderCompany(w, r, statusForAPIError(err), CompanyPage{}, notice)
		return
	}
	h.renderCompany(w, r, http.StatusOK, CompanyPage{Loaded: true, Input: *info}, "")
}

// UpdateCompany handles POST /admin/company.
func (h *AdminHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.flashes, RouteCompany) {
		return
	}
	page := CompanyPage{Loaded: true, Input: parseCompanyInfo(r)}

	if errs := validateInput(page.Input); errs.Any() {
		page.Errors = errs
		h.renderCompany(w, r, http.StatusUnprocessableEntity, page, msgCheckFields)
		return
	}

	if err := h.api.UpdateCompanyInfo(r.Context(), page.Input); err != nil {
		done, notice := apiFailure(w, r, h.flashes, err, msgCompanySaveError, RouteCompany)
		if done {
			return
		}
		h.renderCompany(w, r, statusForAPIError(err), page, notice)
		return
	}

	h.invalidate(r.Context())
	flashSuccess(w, r, h.flashes, RouteCompany, msgCompanySaved)
}

func (h *AdminHandler) renderCompany(w http.ResponseWriter, r *http.Request, status int, page CompanyPage, notice string) {
	data := render.TemplateData{Title: titleCompany, Data: page}
	if notice != "" {
		data.Flash = notice
		data.FlashType = session.FlashError
	}
	renderPage(w, r, h.renderer, status, templateCompany, data)
}
