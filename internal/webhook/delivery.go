// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Delivery headers.
const (
	HeaderSignature  = "X-Webhook-Signature"
	HeaderEvent      = "X-Webhook-Event"
	HeaderDeliveryID = "X-Webhook-Delivery-ID"
)

const (
	maxResponseLen = 4 * 1024
	userAgent      = "tmsite-webhook/1.0"
)

// DeliveryResult represents the result of a delivery attempt.
type DeliveryResult struct {
	StatusCode  int
	Err         error
	ShouldRetry bool
}

// Success reports a 2xx response.
func (r DeliveryResult) Success() bool {
	return r.Err == nil
}

// attempt performs one signed HTTP POST.
func (d *Dispatcher) attempt(ctx context.Context, ev *Event, payload []byte) DeliveryResult {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return DeliveryResult{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(HeaderEvent, ev.Type)
	req.Header.Set(HeaderDeliveryID, ev.ID)
	if d.cfg.Secret != "" {
		req.Header.Set(HeaderSignature, "sha256="+GenerateSignature(payload, d.cfg.Secret))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return DeliveryResult{Err: fmt.Errorf("request failed: %w", err), ShouldRetry: true}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseLen))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return DeliveryResult{StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// Client errors are final except for 408 and 429.
		return DeliveryResult{
			StatusCode:  resp.StatusCode,
			Err:         fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			ShouldRetry: resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests,
		}
	default:
		return DeliveryResult{
			StatusCode:  resp.StatusCode,
			Err:         fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
			ShouldRetry: true,
		}
	}
}

// calculateBackoff doubles base for each attempt after the first, capped at limit.
func calculateBackoff(attempt int, base, limit time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	backoff := base
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff >= limit {
			return limit
		}
	}
	return backoff
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature, with or without the
// "sha256=" prefix.
func VerifySignature(payload []byte, signature, secret string) bool {
	signature = strings.TrimPrefix(signature, "sha256=")
	expected := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
