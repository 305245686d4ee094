// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultJobTimeout bounds a single warm-up run.
const DefaultJobTimeout = 30 * time.Second

// Warmer refreshes cached public content.
type Warmer interface {
	Warm(ctx context.Context) error
}

// Scheduler keeps the public content cache warm.
type Scheduler struct {
	cron     *cron.Cron
	warmer   Warmer
	schedule string
	timeout  time.Duration
	logger   *slog.Logger

	housekeeping []job

	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr error
}

// job is a named housekeeping task.
type job struct {
	name     string
	schedule string
	fn       func()
}

// New creates a new scheduler instance.
func New(warmer Warmer, schedule string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:     cron.New(),
		warmer:   warmer,
		schedule: schedule,
		timeout:  DefaultJobTimeout,
		logger:   logger,
	}
}

// AddHousekeeping registers a lightweight periodic task such as pruning
// rate limiter state. It must be called before Start.
func (s *Scheduler) AddHousekeeping(name, schedule string, fn func()) {
	s.housekeeping = append(s.housekeeping, job{name: name, schedule: schedule, fn: fn})
}

// Start registers the warm-up job and housekeeping tasks, runs the warm-up
// once in the background and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		return fmt.Errorf("invalid warm schedule %q: %w", s.schedule, err)
	}
	for _, j := range s.housekeeping {
		if _, err := s.cron.AddFunc(j.schedule, j.fn); err != nil {
			return fmt.Errorf("invalid schedule %q for %s: %w", j.schedule, j.name, err)
		}
	}

	go s.RunOnce()

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.schedule, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunOnce warms the cache. Overlapping runs are skipped.
func (s *Scheduler) RunOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug("cache warm-up already running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := s.warmer.Warm(ctx)

	s.mu.Lock()
	s.running = false
	s.lastRun = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("cache warm-up failed", "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("cache warmed", "duration", time.Since(start))
}

// LastRun reports when the last warm-up started and how it ended.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}
