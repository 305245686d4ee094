// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config holds dispatcher configuration.
type Config struct {
	URL    string
	Secret string

	Workers        int           // Number of concurrent delivery workers
	QueueSize      int           // Pending events before new ones are dropped
	MaxAttempts    int           // Delivery attempts per event
	InitialBackoff time.Duration // Delay before the second attempt
	MaxBackoff     time.Duration
	RequestTimeout time.Duration

	// AllowPrivate permits endpoints on private networks.
	AllowPrivate bool
}

// DefaultConfig returns default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		Workers:        2,
		QueueSize:      100,
		MaxAttempts:    5,
		InitialBackoff: 5 * time.Second,
		MaxBackoff:     5 * time.Minute,
		RequestTimeout: 10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = def.InitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = def.MaxBackoff
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	return c
}

type queued struct {
	event   *Event
	payload []byte
}

// Dispatcher delivers events to one endpoint from a bounded queue.
type Dispatcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	queue chan queued
	done  chan struct{}
	wg    sync.WaitGroup

	mu      sync.RWMutex
	running bool
}

// NewDispatcher creates a new webhook dispatcher.
func NewDispatcher(cfg Config, logger *slog.Logger) (*Dispatcher, error) {
	cfg = cfg.withDefaults()
	if err := ValidateURL(cfg.URL, cfg.AllowPrivate); err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		DialContext:         dialer.DialContext,
	}
	if !cfg.AllowPrivate {
		transport.DialContext = safeDialContext(dialer)
	}

	return &Dispatcher{
		cfg: cfg,
		client: &http.Client{
			Transport: transport,
			// Redirects could point at an internal host.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
		queue:  make(chan queued, cfg.QueueSize),
		done:   make(chan struct{}),
	}, nil
}

// Start starts the dispatcher workers.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true

	d.logger.Info("starting webhook dispatcher", "workers", d.cfg.Workers)
	for i := range d.cfg.Workers {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Stop stops the dispatcher and waits for workers to finish. Events still
// queued are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.done)
	d.mu.Unlock()

	d.wg.Wait()
	if n := len(d.queue); n > 0 {
		d.logger.Warn("webhook dispatcher stopped with pending events", "pending", n, "category", "contact")
	}
	d.logger.Info("webhook dispatcher stopped")
}

// Dispatch queues an event. It never blocks; a full queue drops the event.
func (d *Dispatcher) Dispatch(ctx context.Context, eventType string, data any) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.running {
		return fmt.Errorf("webhook: dispatcher not running")
	}

	ev := &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("webhook: encode %s: %w", eventType, err)
	}

	select {
	case d.queue <- queued{event: ev, payload: payload}:
		d.logger.DebugContext(ctx, "webhook event queued", "event", eventType, "delivery_id", ev.ID)
		return nil
	default:
		d.logger.WarnContext(ctx, "webhook queue full, event dropped",
			"event", eventType, "delivery_id", ev.ID, "category", "contact")
		return fmt.Errorf("webhook: queue full")
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	d.logger.Debug("webhook worker started", "worker_id", id)

	for {
		select {
		case <-d.done:
			return
		case q := <-d.queue:
			d.deliver(q)
		}
	}
}

// deliver retries with exponential backoff until success, a final failure
// or shutdown.
func (d *Dispatcher) deliver(q queued) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-d.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for attempt := 1; ; attempt++ {
		res := d.attempt(ctx, q.event, q.payload)
		if res.Success() {
			d.logger.Info("webhook delivered",
				"event", q.event.Type, "delivery_id", q.event.ID,
				"status_code", res.StatusCode, "attempt", attempt)
			return
		}

		if !res.ShouldRetry || attempt >= d.cfg.MaxAttempts {
			d.logger.Warn("webhook delivery failed",
				"event", q.event.Type, "delivery_id", q.event.ID,
				"attempts", attempt, "error", res.Err, "category", "contact")
			return
		}

		backoff := calculateBackoff(attempt, d.cfg.InitialBackoff, d.cfg.MaxBackoff)
		d.logger.Debug("webhook delivery scheduled for retry",
			"delivery_id", q.event.ID, "attempt", attempt, "backoff", backoff, "error", res.Err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			d.logger.Warn("webhook delivery abandoned on shutdown",
				"event", q.event.Type, "delivery_id", q.event.ID, "category", "contact")
			return
		case <-timer.C:
		}
	}
}
