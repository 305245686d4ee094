// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/listing"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
)

func (h *AdminHandler) contacts() *listing.Controller[model.Contact] {
	return listing.New(h.api.ListContacts, listing.ContactMatcher)
}

// contactStatusOptions is the lead status filter.
func contactStatusOptions() []Option {
	opts := []Option{{Value: listing.StatusAll, Label: "Todos os Status"}}
	for _, s := range model.ContactStatuses {
		opts = append(opts, Option{Value: string(s), Label: s.Label()})
	}
	return opts
}

func contactsList() listSpec {
	return listSpec{
		route:     RouteContacts,
		title:     titleContacts,
		template:  templateContacts,
		loadError: msgContactsLoadError,
		options:   contactStatusOptions(),
	}
}

// Contacts lists leads with search, status filter and per-status counts.
func (h *AdminHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	renderList(w, r, h, h.contacts(), contactsList())
}

// UpdateContactStatus handles POST /admin/contacts/{id}/status. The list
// comes back with the filters the form carried.
func (h *AdminHandler) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.flashes, RouteContacts) {
		return
	}
	back := contactsReturnURL(r)

	status := model.ContactStatus(r.PostFormValue("status"))
	if !status.Valid() {
		flashError(w, r, h.flashes, back, msgContactInvalidState)
		return
	}

	ctrl := h.contacts()
	err := ctrl.Mutate(r.Context(), func(ctx context.Context) error {
		return h.api.UpdateContactStatus(ctx, id, status)
	})

	var refreshErr *listing.RefreshError
	switch {
	case err == nil:
		showList(w, r, h, ctrl, contactsList(), filterFromForm(r), http.StatusOK, msgContactStatusSaved, session.FlashSuccess)
	case errors.As(err, &refreshErr):
		refreshNotice(w, r, h, ctrl, contactsList(), filterFromForm(r), refreshErr.Err)
	default:
		handleAPIError(w, r, h.flashes, err, msgContactStatusError, back)
	}
}

// ConfirmDeleteContact renders the contact delete confirmation.
func (h *AdminHandler) ConfirmDeleteContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctrl := h.contacts()
	if err := ctrl.Refresh(r.Context()); err != nil {
		handleAPIError(w, r, h.flashes, err, msgContactsLoadError, RouteContacts)
		return
	}
	contact, ok := findByID(ctrl.Items(), id, func(c model.Contact) string { return c.ID })
	if !ok {
		flashError(w, r, h.flashes, RouteContacts, msgNotFound)
		return
	}

	renderConfirm(w, r, h, titleContacts, ConfirmPage{
		Question: msgContactConfirm,
		Name:     contact.Name,
		Action:   RouteContacts + "/" + url.PathEscape(contact.ID) + RouteSuffixDelete,
		Cancel:   RouteContacts,
	})
}

// DeleteContact handles POST /admin/contacts/{id}/delete.
func (h *AdminHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	deleteItem(w, r, h, h.contacts(), deleteSpec{
		list:    contactsList(),
		remove:  h.api.DeleteContact,
		success: msgContactDeleted,
		failure: msgContactDeleteError,
	})
}

// contactsReturnURL keeps the list filters across a status change.
func contactsReturnURL(r *http.Request) string {
	q := url.Values{}
	if s := r.PostFormValue("q"); s != "" {
		q.Set("q", s)
	}
	if s := r.PostFormValue("filter"); s != "" && s != listing.StatusAll {
		q.Set("status", s)
	}
	if len(q) == 0 {
		return RouteContacts
	}
	return RouteContacts + "?" + q.Encode()
}
