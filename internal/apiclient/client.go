// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apiclient talks to the backend REST API.
//
// Requests to admin endpoints carry the session bearer token. A 401 on such
// a request clears the token from the session; callers decide where to
// navigate next.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every backend call.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 1 << 16

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenSource provides and revokes the session bearer token.
type TokenSource interface {
	Get(ctx context.Context) string
	Clear(ctx context.Context)
}

// Options configures a Client.
type Options struct {
	Timeout    time.Duration
	HTTPClient HTTPClient
	Tokens     TokenSource
	Logger     *slog.Logger
}

// Client is a typed client for the backend REST contract.
type Client struct {
	base   *url.URL
	client HTTPClient
	tokens TokenSource
	logger *slog.Logger
}

// New constructs a Client for the backend at baseURL. Endpoints are
// resolved under baseURL + "/api".
func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	parsed, err := url.Parse(baseURL + "/api/")
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: unsupported URL scheme %q", parsed.Scheme)
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:   parsed,
		client: client,
		tokens: opts.Tokens,
		logger: logger,
	}, nil
}

// call performs a request and decodes a JSON response into out when non-nil.
// authed requests carry the session token.
func (c *Client) call(ctx context.Context, method, endpoint string, authed bool, payload, out any) error {
	req, err := c.newRequest(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}

	var token string
	if authed && c.tokens != nil {
		token = c.tokens.Get(ctx)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			"method", method, "endpoint", endpoint, "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("backend request",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errorFromResponse(resp)
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			c.tokens.Clear(ctx)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrInvalidResponse, method, endpoint, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(payload); err != nil {
			return nil, fmt.Errorf("apiclient: encode payload: %w", err)
		}
		body = &buf
	}

	target, err := c.resolve(endpoint)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) resolve(endpoint string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("apiclient: parse endpoint %q: %w", endpoint, err)
	}
	return c.base.ResolveReference(ref).String(), nil
}

// errorFromResponse builds an APIError from the backend's {"detail": ...}
// body, falling back to the raw text.
func errorFromResponse(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	apiErr := &APIError{Status: resp.StatusCode}
	if len(body) == 0 {
		return apiErr
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(payload.Detail, &detail); err == nil {
			apiErr.Detail = detail
			return apiErr
		}
		// Structured validation details are kept verbatim.
		apiErr.Detail = string(payload.Detail)
		return apiErr
	}
	apiErr.Detail = strings.TrimSpace(string(body))
	return apiErr
}

// pathID escapes an entity id for use as a path segment.
func pathID(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}

// listField decodes the collection stored under key in a {key: [...]} body.
func listField[T any](raw map[string]json.RawMessage, key string) ([]T, error) {
	field, ok := raw[key]
	if !ok || string(field) == "null" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(field, &items); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", ErrInvalidResponse, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// getList fetches a collection wrapped as {key: [...]}.
func getList[T any](ctx context.Context, c *Client, endpoint, key string, authed bool) ([]T, error) {
	var raw map[string]json.RawMessage
	if err := c.call(ctx, http.MethodGet, endpoint, authed, nil, &raw); err != nil {
		return nil, err
	}
	return listField[T](raw, key)
}
