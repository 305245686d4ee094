// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import "context"

type contextKey struct{}

// RequestInfo identifies the HTTP request a log record belongs to.
type RequestInfo struct {
	ID     string
	Method string
	Path   string
}

// WithRequest stores request info in ctx.
func WithRequest(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, contextKey{}, info)
}

// RequestFromContext returns the request info stored in ctx.
func RequestFromContext(ctx context.Context) (RequestInfo, bool) {
	if ctx == nil {
		return RequestInfo{}, false
	}
	info, ok := ctx.Value(contextKey{}).(RequestInfo)
	return info, ok
}
