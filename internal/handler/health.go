// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/apiclient"
	"github.com/mayconcorreia/site-tmhigienizacao/internal/cache"
)

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 3 * time.Second

// BackendPinger probes the backend root endpoint.
type BackendPinger interface {
	Ping(ctx context.Context) (*apiclient.Status, error)
}

// WarmStatus reports the last cache warm-up.
type WarmStatus interface {
	LastRun() (time.Time, error)
}

// HealthInfo is static information included in health responses.
type HealthInfo struct {
	Version         string
	CacheBackend    string
	SnapshotVersion string
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	backend   BackendPinger
	warm      WarmStatus
	cache     cache.Cacher
	info      HealthInfo
	startTime time.Time
}

// NewHealthHandler creates a new health handler. warm may be nil.
func NewHealthHandler(db *sql.DB, backend BackendPinger, warm WarmStatus, info HealthInfo) *HealthHandler {
	return &HealthHandler{
		db:        db,
		backend:   backend,
		warm:      warm,
		info:      info,
		startTime: time.Now(),
	}
}

// SetCache adds a content cache check to health responses.
func (h *HealthHandler) SetCache(c cache.Cacher) {
	h.cache = c
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status          string           `json:"status"`
	Timestamp       time.Time        `json:"timestamp"`
	Uptime          string           `json:"uptime"`
	Version         string           `json:"version"`
	Cache           string           `json:"cache"`
	SnapshotVersion string           `json:"snapshot_version"`
	Checks          map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// Health handles GET /health. The site stays up without the backend, so a
// failing backend reports degraded with 200; only a broken session store
// makes the instance unhealthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	backendCheck := h.checkBackend(r.Context())

	status := HealthStatus{
		Status:          statusHealthy,
		Timestamp:       time.Now().UTC(),
		Uptime:          time.Since(h.startTime).Round(time.Second).String(),
		Version:         h.info.Version,
		Cache:           h.info.CacheBackend,
		SnapshotVersion: h.info.SnapshotVersion,
		Checks: map[string]Check{
			"database": dbCheck,
			"backend":  backendCheck,
		},
	}
	if h.warm != nil {
		status.Checks["cache_warm"] = h.checkWarm()
	}
	if h.cache != nil {
		status.Checks["cache"] = h.checkCache(r.Context())
	}

	code := http.StatusOK
	switch {
	case dbCheck.Status != statusHealthy:
		status.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
	case backendCheck.Status != statusHealthy:
		status.Status = statusDegraded
	case status.Checks["cache"].Status == statusDegraded:
		status.Status = statusDegraded
	}

	writeJSON(w, code, status)
}

// checkDatabase verifies the session database.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: statusUnhealthy, Message: "not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: statusUnhealthy, Message: "database unreachable"}
	}
	return Check{Status: statusHealthy, Latency: time.Since(start).String()}
}

// checkBackend pings the REST backend.
func (h *HealthHandler) checkBackend(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	st, err := h.backend.Ping(ctx)
	latency := time.Since(start).String()
	if err != nil {
		return Check{Status: statusUnhealthy, Message: "backend unreachable", Latency: latency}
	}
	return Check{Status: statusHealthy, Message: st.Version, Latency: latency}
}

// checkWarm reports the last cache warm-up.
func (h *HealthHandler) checkWarm() Check {
	at, err := h.warm.LastRun()
	switch {
	case at.IsZero():
		return Check{Status: statusHealthy, Message: "not run yet"}
	case err != nil:
		return Check{Status: statusDegraded, Message: "last run " + at.UTC().Format(time.RFC3339) + " failed"}
	default:
		return Check{Status: statusHealthy, Message: "last run " + at.UTC().Format(time.RFC3339)}
	}
}

// checkCache pings a remote cache and reports the hit rate. An unreachable
// cache degrades the site to backend fetches on every request.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	var check Check
	if p, ok := h.cache.(cache.Pinger); ok {
		ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		defer cancel()

		start := time.Now()
		err := p.Ping(ctx)
		check.Latency = time.Since(start).String()
		if err != nil {
			check.Status = statusDegraded
			check.Message = "cache unreachable"
			return check
		}
	}

	check.Status = statusHealthy
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		st := sp.Stats()
		check.Message = fmt.Sprintf("hit rate %.1f%% (%d hits, %d misses)", st.HitRate, st.Hits, st.Misses)
	}
	return check
}
