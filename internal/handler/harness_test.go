// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/apiclient"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/auth"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/cache"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/content"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/middleware"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/render"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/seo"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/session"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/store"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/testutil"
	"github.com/mayconcorreia/site-tmhigienizacao/web"
)

// harness runs the full router against a fake backend.
type harness struct {
	t       *testing.T
	backend *testutil.Backend
	server  *httptest.Server
	client  *http.Client
	events  *store.Events
	content *content.Resolver
	leads   *recordingDispatcher
}

type dispatched struct {
	eventType string
	data      any
}

// recordingDispatcher captures webhook events instead of delivering them.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []dispatched
	err    error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, eventType string, data any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, dispatched{eventType: eventType, data: data})
	return d.err
}

func (d *recordingDispatcher) sent() []dispatched {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dispatched(nil), d.events...)
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := testutil.NewBackend(t)
	db := testutil.TestDB(t)
	logger := testutil.TestLogger()

	sm := session.New(db, session.Options{IsDev: true})
	tokens := session.NewTokenStore(sm)
	flashes := session.NewFlashes(sm)

	api, err := apiclient.New(backend.URL(), apiclient.Options{
		Timeout: 2 * time.Second,
		Tokens:  tokens,
		Logger:  logger,
	})
	require.NoError(t, err)

	snapshot, err := content.BundledSnapshot()
	require.NoError(t, err)
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	t.Cleanup(func() { _ = mem.Close() })
	resolver := content.NewResolver(api, snapshot, mem, time.Minute, logger)

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	static, err := fs.Sub(web.Static, "static")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS: templates,
		Flashes:     flashes,
		CountryCode: "55",
		IsDev:       true,
	})
	require.NoError(t, err)

	guard := auth.NewGuard(api, tokens, auth.Options{Logger: logger})
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{MaxFailedAttempts: 3})
	events := store.NewEvents(db)

	leads := &recordingDispatcher{}
	public := NewPublicHandler(resolver, api, renderer, flashes, seo.SiteConfig{SiteURL: "https://tm.example"})
	public.SetDispatcher(leads, "55")

	router := NewRouter(Handlers{
		Public: public,
		Auth:   NewAuthHandler(guard, lp, renderer, flashes),
		Admin:  NewAdminHandler(api, resolver, events, renderer, flashes),
		Health: NewHealthHandler(db, api, nil, HealthInfo{
			Version:         "test",
			CacheBackend:    cache.BackendMemory,
			SnapshotVersion: resolver.SnapshotVersion(),
		}),
	}, RouterConfig{
		Sessions:     sm,
		Guard:        guard,
		CSRF:         middleware.CSRF(middleware.DefaultCSRFConfig([]byte(strings.Repeat("k", 32)), true, "")),
		Security:     middleware.DefaultSecurityHeadersConfig(true),
		Static:       static,
		StaticMaxAge: time.Hour,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &harness{
		t:       t,
		backend: backend,
		server:  srv,
		client:  testutil.Browser(t),
		events:  events,
		content: resolver,
		leads:   leads,
	}
}

func (h *harness) do(req *http.Request) *http.Response {
	h.t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	return resp
}

func (h *harness) get(path string) *http.Response {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.server.URL+path, nil)
	require.NoError(h.t, err)
	return h.do(req)
}

func (h *harness) post(path string, form url.Values) *http.Response {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

// page GETs path, expects status and parses the body.
func (h *harness) page(path string, status int) *goquery.Document {
	h.t.Helper()
	resp := h.get(path)
	body := testutil.ReadBody(h.t, resp)
	require.Equal(h.t, status, resp.StatusCode, "GET %s: %s", path, body)
	return testutil.ParseHTML(h.t, body)
}

// postPage POSTs form, expects status and parses the rendered body.
func (h *harness) postPage(path string, form url.Values, status int) *goquery.Document {
	h.t.Helper()
	resp := h.post(path, form)
	body := testutil.ReadBody(h.t, resp)
	require.Equal(h.t, status, resp.StatusCode, "POST %s: %s", path, body)
	return testutil.ParseHTML(h.t, body)
}

// parse reads and parses a rendered response.
func (h *harness) parse(resp *http.Response) *goquery.Document {
	h.t.Helper()
	return testutil.ParseHTML(h.t, testutil.ReadBody(h.t, resp))
}

// login signs in with the default credentials.
func (h *harness) login() {
	h.t.Helper()
	resp := h.post(RouteLogin, url.Values{
		"username": {testutil.DefaultUsername},
		"password": {testutil.DefaultPassword},
	})
	_ = testutil.ReadBody(h.t, resp)
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(h.t, RouteDashboard, resp.Header.Get("Location"))
}

// assertRedirect checks a 303 to location.
func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	_ = testutil.ReadBody(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

// flash returns the kind and text of the rendered notification.
func flash(doc *goquery.Document) (kind, text string) {
	sel := doc.Find(".flash")
	if sel.Length() == 0 {
		return "", ""
	}
	class, _ := sel.Attr("class")
	kind = strings.TrimPrefix(strings.Fields(class)[1], "flash-")
	return kind, strings.TrimSpace(sel.Find("p").Text())
}

// fieldErrors returns the texts of rendered field errors.
func fieldErrors(doc *goquery.Document) []string {
	var out []string
	doc.Find(".field-error").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}
