// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// stubRedis is an in-memory redisClient. Scan pages hold the first
// remaining key so Clear has to follow the cursor.
type stubRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	pingErr error
	getErr  error
	closed  bool
}

func newStubRedis() *stubRedis {
	return &stubRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *stubRedis) Get(_ context.Context, key string) *redis.StringCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return redis.NewStringResult("", s.getErr)
	}
	v, ok := s.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (s *stubRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = string(value.([]byte))
	s.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (s *stubRedis) Unlink(_ context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := s.data[k]; ok {
			delete(s.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (s *stubRedis) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := s.data[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (s *stubRedis) Scan(_ context.Context, _ uint64, match string, _ int64) *redis.ScanCmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := strings.TrimSuffix(match, "*")
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return redis.NewScanCmdResult(nil, 0, nil)
	}
	sort.Strings(keys)
	var next uint64
	if len(keys) > 1 {
		next = 1
	}
	return redis.NewScanCmdResult(keys[:1], next, nil)
}

func (s *stubRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", s.pingErr)
}

func (s *stubRedis) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func newStubCache(t *testing.T) (*RedisCache, *stubRedis) {
	t.Helper()
	stub := newStubRedis()
	c, err := newRedisCache(stub, RedisCacheOptions{Prefix: "tmsite:", DefaultTTL: time.Minute})
	if err != nil {
		t.Fatalf("newRedisCache() error: %v", err)
	}
	return c, stub
}

func TestRedisCache_GetSet(t *testing.T) {
	c, stub := newStubCache(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, "content:services"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get() error = %v, want ErrCacheMiss", err)
	}
	if err := c.Set(ctx, "content:services", []byte(`[]`), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if got := stub.ttls["tmsite:content:services"]; got != time.Minute {
		t.Errorf("ttl = %v, want default of 1m", got)
	}

	got, err := c.Get(ctx, "content:services")
	if err != nil || string(got) != "[]" {
		t.Fatalf("Get() = %q, %v; want []", got, err)
	}
	if has, _ := c.Has(ctx, "content:services"); !has {
		t.Error("Has() = false, want true")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Sets != 1 || st.HitRate != 50 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, 1 set", st)
	}
	c.ResetStats()
	if st := c.Stats(); st.Hits != 0 || st.Misses != 0 {
		t.Errorf("Stats() after reset = %+v", st)
	}
}

func TestRedisCache_GetError(t *testing.T) {
	c, stub := newStubCache(t)
	stub.getErr = errors.New("connection reset")

	_, err := c.Get(context.Background(), "k")
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get() error = %v, want a non-miss error", err)
	}
	if c.Stats().Misses != 0 {
		t.Error("transport errors must not count as misses")
	}
}

func TestRedisCache_ClearKeepsOtherPrefixes(t *testing.T) {
	c, stub := newStubCache(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%s) error: %v", k, err)
		}
	}
	stub.data["other:x"] = "1"

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if len(stub.data) != 1 || stub.data["other:x"] != "1" {
		t.Errorf("data after Clear = %v, want only other:x", stub.data)
	}

	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete() of a missing key error: %v", err)
	}
}

func TestRedisCache_Closed(t *testing.T) {
	c, stub := newStubCache(t)
	ctx := context.Background()

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if !stub.closed {
		t.Error("client not closed")
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get() error = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set() error = %v, want ErrCacheClosed", err)
	}
	if err := c.Ping(ctx); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Ping() error = %v, want ErrCacheClosed", err)
	}
}

func TestNewRedisCache_PingFailureClosesClient(t *testing.T) {
	stub := newStubRedis()
	stub.pingErr = errors.New("refused")

	if _, err := newRedisCache(stub, RedisCacheOptions{}); err == nil {
		t.Fatal("newRedisCache() error = nil, want ping error")
	}
	if !stub.closed {
		t.Error("client left open after failed ping")
	}
}

func TestNewRedisCache_RequiresURL(t *testing.T) {
	if _, err := NewRedisCache(RedisCacheOptions{}); err == nil {
		t.Error("NewRedisCache() error = nil, want error for empty URL")
	}
	if _, err := NewRedisCache(RedisCacheOptions{URL: "http://not-redis"}); err == nil {
		t.Error("NewRedisCache() error = nil, want error for bad scheme")
	}
}

// TestRedisCache_Live runs against a real server when one is configured.
func TestRedisCache_Live(t *testing.T) {
	url := os.Getenv("TMSITE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: TMSITE_TEST_REDIS_URL not set")
	}

	opts := DefaultRedisCacheOptions()
	opts.URL = url
	opts.Prefix = "tmsite-test:"
	c, err := NewRedisCache(opts)
	if err != nil {
		t.Fatalf("failed to create Redis cache: %v", err)
	}
	defer func() { _ = c.Close() }()

	ctx := context.Background()
	_ = c.Clear(ctx)
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, err := c.Get(ctx, "k"); err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v; want v", got, err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get after Clear = %v, want ErrCacheMiss", err)
	}
}
