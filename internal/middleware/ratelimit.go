// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// newLimiterCache creates a new limiter cache.
func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// clearIfExceeds clears all entries if the cache exceeds maxSize.
// Returns true if the cache was cleared.
func (lc *limiterCache[K]) clearIfExceeds(maxSize int) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if len(lc.limiters) > maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
		return true
	}
	return false
}

// maxTrackedIPs bounds the per-IP limiter map.
const maxTrackedIPs = 10000

// RateLimiter limits POST requests per client IP.
type RateLimiter struct {
	name    string
	ips     *limiterCache[string]
	message string
}

// NewRateLimiter creates a per-IP limiter allowing rps requests per second
// with the given burst. name appears in logs; message is the body of 429
// responses.
func NewRateLimiter(name string, rps float64, burst int, message string) *RateLimiter {
	if rps <= 0 {
		rps = 0.5
	}
	if burst <= 0 {
		burst = 5
	}
	return &RateLimiter{
		name:    name,
		ips:     newLimiterCache[string](rps, burst),
		message: message,
	}
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.ips.get(ip).Allow()
}

// Middleware rate limits POST requests. Other methods pass through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		ip := ClientIP(r)
		if !rl.Allow(ip) {
			slog.WarnContext(r.Context(), "rate limit exceeded", "limiter", rl.name, "ip", ip)
			w.Header().Set("Retry-After", "2")
			http.Error(w, rl.message, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Prune drops all limiters once more than maxTrackedIPs are held.
func (rl *RateLimiter) Prune() {
	if rl.ips.clearIfExceeds(maxTrackedIPs) {
		slog.Info("cleared IP rate limiters due to size", "limiter", rl.name)
	}
}

// ClientIP returns the host part of RemoteAddr. chi's RealIP middleware
// has already replaced it with the proxy-reported address when present.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LoginProtection locks a username out after repeated failed logins.
// Per-IP throttling is done by a RateLimiter in front of the login route.
type LoginProtection struct {
	failedAttempts map[string]*loginAttempt
	mu             sync.Mutex
	now            func() time.Time

	maxFailedAttempts int           // Lock account after this many failures
	lockoutDuration   time.Duration // Base lockout duration (doubles with each lockout)
	attemptWindow     time.Duration // Window to count failed attempts
}

// loginAttempt tracks failed login attempts for a username.
type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// MaxFailedAttempts before lockout (default: 5)
	MaxFailedAttempts int
	// LockoutDuration is base lockout time, doubles with each lockout (default: 15 minutes)
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts (default: 15 minutes)
	AttemptWindow time.Duration
}

// NewLoginProtection creates a new login protection instance.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}

	return &LoginProtection{
		failedAttempts:    make(map[string]*loginAttempt),
		now:               time.Now,
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
	}
}

// IsLocked reports whether username is locked and for how long.
func (lp *LoginProtection) IsLocked(username string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	attempt, exists := lp.failedAttempts[username]
	if !exists {
		return false, 0
	}
	now := lp.now()
	if now.Before(attempt.lockedUntil) {
		return true, attempt.lockedUntil.Sub(now)
	}
	return false, 0
}

// RecordFailure records a failed login and returns the lockout started by
// it, if any.
func (lp *LoginProtection) RecordFailure(username string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := lp.now()
	attempt, exists := lp.failedAttempts[username]
	if !exists || now.Sub(attempt.firstFailed) > lp.attemptWindow {
		if !exists {
			attempt = &loginAttempt{}
			lp.failedAttempts[username] = attempt
		}
		attempt.count = 0
		attempt.firstFailed = now
	}

	attempt.count++
	if attempt.count < lp.maxFailedAttempts {
		return false, 0
	}

	// Exponential backoff capped at 24 hours
	lockDuration := lp.lockoutDuration
	for i := 0; i < attempt.lockouts && lockDuration < 24*time.Hour; i++ {
		lockDuration *= 2
	}
	if lockDuration > 24*time.Hour {
		lockDuration = 24 * time.Hour
	}

	attempt.lockedUntil = now.Add(lockDuration)
	attempt.lockouts++
	attempt.count = 0

	slog.Warn("admin login locked due to failed attempts",
		"username", username,
		"lockouts", attempt.lockouts,
		"duration", lockDuration,
	)
	return true, lockDuration
}

// RecordSuccess clears failed attempt tracking for username.
func (lp *LoginProtection) RecordSuccess(username string) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	delete(lp.failedAttempts, username)
}

// Cleanup removes entries whose lockout and attempt window have expired.
func (lp *LoginProtection) Cleanup() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := lp.now()
	for username, attempt := range lp.failedAttempts {
		if now.After(attempt.lockedUntil) && now.Sub(attempt.firstFailed) > lp.attemptWindow {
			delete(lp.failedAttempts, username)
		}
	}
}
