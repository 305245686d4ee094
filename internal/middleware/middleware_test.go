// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/auth"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/logging"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

type fakeResolver struct {
	session auth.Session
	calls   int
}

func (f *fakeResolver) Init(context.Context) auth.Session {
	f.calls++
	return f.session
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequireAuth_RedirectsWithNext(t *testing.T) {
	guard := &fakeResolver{session: auth.Session{State: auth.Unauthenticated}}
	h := RequireAuth(guard, "/admin/login")(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin/contacts?status=pending", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	want := "/admin/login?next=%2Fadmin%2Fcontacts%3Fstatus%3Dpending"
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestRequireAuth_PostRedirectsWithoutNext(t *testing.T) {
	guard := &fakeResolver{session: auth.Session{State: auth.Unauthenticated}}
	h := RequireAuth(guard, "/admin/login")(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/admin/services/1/delete", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Location"); got != "/admin/login" {
		t.Errorf("Location = %q, want /admin/login", got)
	}
}

func TestRequireAuth_AuthenticatedStoresUser(t *testing.T) {
	user := &model.User{Username: "admin"}
	guard := &fakeResolver{session: auth.Session{State: auth.Authenticated, User: user}}

	var got *model.User
	h := RequireAuth(guard, "/admin/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.UserFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	if got == nil || got.Username != "admin" {
		t.Errorf("user in context = %v, want admin", got)
	}
	if guard.calls != 1 {
		t.Errorf("Init calls = %d, want 1", guard.calls)
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{name: "production mode enables HSTS", isDev: false, wantHSTS: true},
		{name: "development mode disables HSTS", isDev: true, wantHSTS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS && !strings.Contains(hsts, "includeSubDomains") {
				t.Errorf("HSTS = %q, want includeSubDomains", hsts)
			}
			if !tt.wantHSTS && hsts != "" {
				t.Errorf("expected no HSTS header but got: %s", hsts)
			}

			csp := rec.Header().Get("Content-Security-Policy")
			if !strings.HasPrefix(csp, "default-src 'self'; script-src") {
				t.Errorf("CSP = %q, want ordered directives", csp)
			}
			if !strings.Contains(csp, "form-action 'self' https://wa.me") {
				t.Errorf("CSP must allow posting the lead form to WhatsApp redirect: %q", csp)
			}
			if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", got)
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
			}
		})
	}
}

func TestSecurityHeaders_ExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/health"}
	handler := SecurityHeaders(cfg)(okHandler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("Content-Security-Policy") != "" {
		t.Error("excluded path should not get CSP")
	}
}

func TestBuildPermissionsPolicy_Sorted(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	if got != "camera=(), usb=()" {
		t.Errorf("buildPermissionsPolicy() = %q", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter("login", 0.001, 2, "Muitas tentativas")
	h := rl.Middleware(okHandler)

	post := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := post("10.0.0.1:1234"); got != http.StatusOK {
		t.Fatalf("first POST = %d, want 200", got)
	}
	if got := post("10.0.0.1:5678"); got != http.StatusOK {
		t.Fatalf("second POST = %d, want 200", got)
	}
	if got := post("10.0.0.1:9999"); got != http.StatusTooManyRequests {
		t.Errorf("third POST = %d, want 429", got)
	}
	if got := post("10.0.0.2:1234"); got != http.StatusOK {
		t.Errorf("other IP = %d, want 200", got)
	}

	// GET requests are never limited.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req.RemoteAddr = "10.0.0.1:1"
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET = %d, want 200", rec.Code)
	}
}

func TestLimiterCache_ClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")
	if lc.clearIfExceeds(5) {
		t.Error("clearIfExceeds(5) cleared a cache of 2")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("clearIfExceeds(1) should clear a cache of 2")
	}
	if len(lc.limiters) != 0 {
		t.Errorf("limiters = %d after clear, want 0", len(lc.limiters))
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:4000"
	if got := ClientIP(req); got != "192.0.2.7" {
		t.Errorf("ClientIP() = %q", got)
	}
	req.RemoteAddr = "192.0.2.8"
	if got := ClientIP(req); got != "192.0.2.8" {
		t.Errorf("ClientIP() without port = %q", got)
	}
}

func TestLoginProtection_LockoutAndBackoff(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lp := NewLoginProtection(LoginProtectionConfig{MaxFailedAttempts: 3, LockoutDuration: time.Minute, AttemptWindow: time.Hour})
	lp.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailure("admin"); locked {
			t.Fatalf("locked after %d failures", i+1)
		}
	}
	locked, d := lp.RecordFailure("admin")
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailure() = %v, %v; want locked for 1m", locked, d)
	}
	if locked, _ := lp.IsLocked("admin"); !locked {
		t.Error("IsLocked() = false during lockout")
	}
	if locked, _ := lp.IsLocked("other"); locked {
		t.Error("other usernames must not be locked")
	}

	// Second lockout doubles.
	now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsLocked("admin"); locked {
		t.Error("lockout should have expired")
	}
	lp.RecordFailure("admin")
	lp.RecordFailure("admin")
	if _, d := lp.RecordFailure("admin"); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}

	lp.RecordSuccess("admin")
	if locked, _ := lp.IsLocked("admin"); locked {
		t.Error("RecordSuccess should clear the lockout")
	}
}

func TestLoginProtection_Cleanup(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lp := NewLoginProtection(LoginProtectionConfig{AttemptWindow: time.Minute})
	lp.now = func() time.Time { return now }

	lp.RecordFailure("admin")
	now = now.Add(time.Hour)
	lp.Cleanup()

	if n := len(lp.failedAttempts); n != 0 {
		t.Errorf("failedAttempts = %d after cleanup, want 0", n)
	}
}

func TestRequestContext(t *testing.T) {
	var info logging.RequestInfo
	h := chimw.RequestID(RequestContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, _ = logging.RequestFromContext(r.Context())
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", nil))

	if info.ID == "" || info.Method != http.MethodPost || info.Path != "/contact" {
		t.Errorf("RequestInfo = %+v", info)
	}
}

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		wantCode int
		wantLoc  string
	}{
		{http.MethodGet, "/admin/services/", http.StatusMovedPermanently, "/admin/services"},
		{http.MethodGet, "/admin/?q=1", http.StatusMovedPermanently, "/admin?q=1"},
		{http.MethodGet, "//evil.example/", http.StatusMovedPermanently, "/evil.example"},
		{http.MethodGet, "/", http.StatusOK, ""},
		{http.MethodPost, "/contact/", http.StatusOK, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		StripTrailingSlash(okHandler).ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.wantCode {
			t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantCode)
		}
		if got := rec.Header().Get("Location"); got != tt.wantLoc {
			t.Errorf("%s %s: Location = %q, want %q", tt.method, tt.path, got, tt.wantLoc)
		}
	}
}

func TestCacheHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticCache(24*time.Hour)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Errorf("StaticCache Cache-Control = %q", got)
	}

	rec = httptest.NewRecorder()
	NoStore(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("NoStore Cache-Control = %q", got)
	}
}
