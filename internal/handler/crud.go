// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/listing"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/render"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
)

// Option is one choice of a select input.
type Option struct {
	Value string
	Label string
}

// ListPage is the view model of an admin list screen.
type ListPage[T any] struct {
	Route         string
	Items         []T
	Total         int
	Loaded        bool
	Filter        listing.Filter
	Counts        map[string]int
	StatusOptions []Option
}

// Filtered reports whether a search or status filter is active.
func (p ListPage[T]) Filtered() bool {
	return p.Filter.Search != "" || p.Filter.Status != listing.StatusAll
}

// FormPage is the view model of an admin create or edit form.
type FormPage[In any] struct {
	Route  string
	Action string
	IsNew  bool
	ID     string
	Input  In
	Errors FieldErrors
}

// ConfirmPage is the view model of a delete confirmation.
type ConfirmPage struct {
	Question string
	Name     string
	Action   string
	Cancel   string
}

// resourceMessages are the notifications of one admin resource.
type resourceMessages struct {
	loadError   string
	created     string
	updated     string
	deleted     string
	saveError   string
	deleteError string
	confirm     string
}

// resource describes one backend collection managed through the admin.
type resource[T any, In any] struct {
	route        string
	title        string
	listTemplate string
	formTemplate string
	messages     resourceMessages
	options      []Option

	fetch   listing.Source[T]
	matcher listing.Matcher[T]
	id      func(T) string
	label   func(T) string

	blank   func() In
	toInput func(T) In
	parse   func(*http.Request) In

	create func(ctx context.Context, in In) error
	update func(ctx context.Context, id string, in In) error
	remove func(ctx context.Context, id string) error
}

// CRUD serves the list, form and delete screens of one resource. Every
// request builds its own listing.Controller. A successful mutation refetches
// the collection once and renders that list as the response.
type CRUD[T any, In any] struct {
	h   *AdminHandler
	res resource[T, In]
}

func (c *CRUD[T, In]) controller() *listing.Controller[T] {
	return listing.New(c.res.fetch, c.res.matcher)
}

func (c *CRUD[T, In]) list() listSpec {
	return listSpec{
		route:     c.res.route,
		title:     c.res.title,
		template:  c.res.listTemplate,
		loadError: c.res.messages.loadError,
		options:   c.res.options,
	}
}

// List handles GET on the resource route.
func (c *CRUD[T, In]) List(w http.ResponseWriter, r *http.Request) {
	renderList(w, r, c.h, c.controller(), c.list())
}

// New renders an empty form.
func (c *CRUD[T, In]) New(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, r, http.StatusOK, FormPage[In]{IsNew: true, Input: c.res.blank()}, "")
}

// Create handles POST on the resource route.
func (c *CRUD[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, c.h.flashes, c.res.route+RouteSuffixNew) {
		return
	}
	in := c.res.parse(r)
	page := FormPage[In]{IsNew: true, Input: in}

	if errs := validateInput(in); errs.Any() {
		page.Errors = errs
		c.renderForm(w, r, http.StatusUnprocessableEntity, page, msgCheckFields)
		return
	}

	ctrl := c.controller()
	err := ctrl.Mutate(r.Context(), func(ctx context.Context) error {
		return c.res.create(ctx, in)
	})
	c.finishSave(w, r, ctrl, page, err, c.res.messages.created)
}

// Edit renders the form filled with the current record.
func (c *CRUD[T, In]) Edit(w http.ResponseWriter, r *http.Request) {
	item, ok := c.find(w, r)
	if !ok {
		return
	}
	id := c.res.id(item)
	c.renderForm(w, r, http.StatusOK, FormPage[In]{ID: id, Input: c.res.toInput(item)}, "")
}

// Update handles POST on the record route.
func (c *CRUD[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, c.h.flashes, c.itemURL(id)) {
		return
	}
	in := c.res.parse(r)
	page := FormPage[In]{ID: id, Input: in}

	if errs := validateInput(in); errs.Any() {
		page.Errors = errs
		c.renderForm(w, r, http.StatusUnprocessableEntity, page, msgCheckFields)
		return
	}

	ctrl := c.controller()
	err := ctrl.Mutate(r.Context(), func(ctx context.Context) error {
		return c.res.update(ctx, id, in)
	})
	c.finishSave(w, r, ctrl, page, err, c.res.messages.updated)
}

// ConfirmDelete renders the delete confirmation.
func (c *CRUD[T, In]) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	item, ok := c.find(w, r)
	if !ok {
		return
	}
	id := c.res.id(item)
	renderConfirm(w, r, c.h, c.res.title, ConfirmPage{
		Question: c.res.messages.confirm,
		Name:     c.res.label(item),
		Action:   c.itemURL(id) + RouteSuffixDelete,
		Cancel:   c.res.route,
	})
}

// Delete handles POST on the delete route.
func (c *CRUD[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	deleteItem(w, r, c.h, c.controller(), deleteSpec{
		list:    c.list(),
		remove:  c.res.remove,
		success: c.res.messages.deleted,
		failure: c.res.messages.deleteError,
		public:  true,
	})
}

func (c *CRUD[T, In]) itemURL(id string) string {
	return c.res.route + "/" + url.PathEscape(id)
}

// find loads the collection and looks up the record named in the URL. The
// backend has no single-record endpoint.
func (c *CRUD[T, In]) find(w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	id := chi.URLParam(r, "id")

	ctrl := c.controller()
	if err := ctrl.Refresh(r.Context()); err != nil {
		handleAPIError(w, r, c.h.flashes, err, c.res.messages.loadError, c.res.route)
		return zero, false
	}
	item, ok := findByID(ctrl.Items(), id, c.res.id)
	if !ok {
		flashError(w, r, c.h.flashes, c.res.route, msgNotFound)
		return zero, false
	}
	return item, true
}

// finishSave completes a create or update. A saved record shows the list
// refetched by ctrl; a failed save re-renders the form with the submitted
// values.
func (c *CRUD[T, In]) finishSave(w http.ResponseWriter, r *http.Request, ctrl *listing.Controller[T], page FormPage[In], err error, success string) {
	var refreshErr *listing.RefreshError
	switch {
	case err == nil:
		c.h.invalidate(r.Context())
		showList(w, r, c.h, ctrl, c.list(), defaultFilter(), http.StatusOK, success, session.FlashSuccess)
	case errors.As(err, &refreshErr):
		c.h.invalidate(r.Context())
		refreshNotice(w, r, c.h, ctrl, c.list(), defaultFilter(), refreshErr.Err)
	default:
		back := c.res.route + RouteSuffixNew
		if !page.IsNew {
			back = c.itemURL(page.ID)
		}
		done, notice := apiFailure(w, r, c.h.flashes, err, c.res.messages.saveError, back)
		if done {
			return
		}
		c.renderForm(w, r, statusForAPIError(err), page, notice)
	}
}

func (c *CRUD[T, In]) renderForm(w http.ResponseWriter, r *http.Request, status int, page FormPage[In], notice string) {
	page.Route = c.res.route
	page.Action = c.res.route
	if !page.IsNew {
		page.Action = c.itemURL(page.ID)
	}
	data := render.TemplateData{Title: c.res.title, Data: page}
	if notice != "" {
		data.Flash = notice
		data.FlashType = session.FlashError
	}
	renderPage(w, r, c.h.renderer, status, c.res.formTemplate, data)
}

// listSpec names the pieces of a list screen.
type listSpec struct {
	route     string
	title     string
	template  string
	loadError string
	options   []Option
}

// renderList loads the collection and renders the filtered view. A failed
// load shows an empty list with the error; admin screens have no fallback
// content.
func renderList[T any](w http.ResponseWriter, r *http.Request, h *AdminHandler, ctrl *listing.Controller[T], spec listSpec) {
	filter := filterFromQuery(r)
	if err := ctrl.Refresh(r.Context()); err != nil {
		done, notice := apiFailure(w, r, h.flashes, err, spec.loadError, spec.route)
		if done {
			return
		}
		showList(w, r, h, ctrl, spec, filter, statusForAPIError(err), notice, session.FlashError)
		return
	}
	showList(w, r, h, ctrl, spec, filter, http.StatusOK, "", "")
}

// showList renders ctrl as it stands, without fetching. With an empty
// notice the renderer shows the pending flash instead.
func showList[T any](w http.ResponseWriter, r *http.Request, h *AdminHandler, ctrl *listing.Controller[T], spec listSpec, filter listing.Filter, status int, notice, kind string) {
	page := ListPage[T]{
		Route:         spec.route,
		Items:         ctrl.View(filter),
		Total:         ctrl.Len(),
		Loaded:        ctrl.Loaded(),
		Filter:        filter,
		Counts:        ctrl.Counts(),
		StatusOptions: spec.options,
	}
	renderPage(w, r, h.renderer, status, spec.template, render.TemplateData{
		Title:     spec.title,
		Flash:     notice,
		FlashType: kind,
		Data:      page,
	})
}

// refreshNotice reports a mutation whose follow-up refetch failed. The
// change is saved; the list is shown unloaded with an info notice.
func refreshNotice[T any](w http.ResponseWriter, r *http.Request, h *AdminHandler, ctrl *listing.Controller[T], spec listSpec, filter listing.Filter, err error) {
	if done, _ := apiFailure(w, r, h.flashes, err, msgRefreshFailed, spec.route); done {
		return
	}
	showList(w, r, h, ctrl, spec, filter, http.StatusOK, msgRefreshFailed, session.FlashInfo)
}

func renderConfirm(w http.ResponseWriter, r *http.Request, h *AdminHandler, title string, page ConfirmPage) {
	renderPage(w, r, h.renderer, http.StatusOK, templateConfirm, render.TemplateData{
		Title: title,
		Data:  page,
	})
}

// deleteSpec names the pieces of a delete action.
type deleteSpec struct {
	list    listSpec
	remove  func(ctx context.Context, id string) error
	success string
	failure string
	// public marks collections shown on the public site.
	public bool
}

// deleteItem runs a confirmed delete. An unconfirmed request goes back to
// the confirmation screen.
func deleteItem[T any](w http.ResponseWriter, r *http.Request, h *AdminHandler, ctrl *listing.Controller[T], spec deleteSpec) {
	route := spec.list.route
	id := chi.URLParam(r, "id")
	itemURL := route + "/" + url.PathEscape(id)
	if !parseFormOrRedirect(w, r, h.flashes, route) {
		return
	}

	confirmed := r.PostFormValue(formValueConfirm) == formValueConfirmAccepted
	err := ctrl.Delete(r.Context(), confirmed, func(ctx context.Context) error {
		return spec.remove(ctx, id)
	})

	var refreshErr *listing.RefreshError
	switch {
	case err == nil:
		if spec.public {
			h.invalidate(r.Context())
		}
		showList(w, r, h, ctrl, spec.list, defaultFilter(), http.StatusOK, spec.success, session.FlashSuccess)
	case errors.Is(err, listing.ErrNotConfirmed):
		http.Redirect(w, r, itemURL+RouteSuffixDelete, http.StatusSeeOther)
	case errors.As(err, &refreshErr):
		if spec.public {
			h.invalidate(r.Context())
		}
		refreshNotice(w, r, h, ctrl, spec.list, defaultFilter(), refreshErr.Err)
	default:
		handleAPIError(w, r, h.flashes, err, spec.failure, route)
	}
}

// filterFromQuery reads the search box and status select.
func filterFromQuery(r *http.Request) listing.Filter {
	q := r.URL.Query()
	return newFilter(q.Get("q"), q.Get("status"))
}

// filterFromForm reads the filters carried as hidden fields of a list
// action.
func filterFromForm(r *http.Request) listing.Filter {
	return newFilter(r.PostFormValue("q"), r.PostFormValue("filter"))
}

func defaultFilter() listing.Filter {
	return newFilter("", "")
}

func newFilter(search, status string) listing.Filter {
	f := listing.Filter{
		Search: strings.TrimSpace(search),
		Status: status,
	}
	if f.Status == "" {
		f.Status = listing.StatusAll
	}
	return f
}

func findByID[T any](items []T, id string, idOf func(T) string) (T, bool) {
	for _, item := range items {
		if idOf(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
