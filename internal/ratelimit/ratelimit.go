// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package ratelimit provides the fixed-window per-IP counter guarding
// mutating API calls.
//
// The limiter is an injected instance owned by the gateway composition, not
// package-level state, so tests get isolated limiters and process lifecycle
// is explicit. State is in-memory and per-process: when the portal runs as
// multiple instances each enforces its own budget. That is a documented
// scaling limitation, not something this package papers over.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Default policy: 100 mutating requests per 15-minute window per client IP.
const (
	DefaultWindow = 15 * time.Minute
	DefaultLimit  = 100
)

// UnknownClient is the bucket shared by requests whose client IP cannot be
// attributed. All unattributable clients share one budget, an accepted
// imprecision for a soft abuse deterrent.
const UnknownClient = "unknown"

// Config holds limiter settings.
type Config struct {
	// Window is the fixed window length. Default: 15m.
	Window time.Duration

	// Limit is the maximum requests per window. Default: 100.
	Limit int

	// Now overrides the clock, for tests. Default: time.Now.
	Now func() time.Time
}

// Result is the outcome of one Allow call.
type Result struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// Remaining is the budget left in the current window after this
	// request. Zero when the request was denied.
	Remaining int

	// Limit echoes the configured window limit, for response headers.
	Limit int
}

type record struct {
	count       int
	windowStart time.Time
}

// Limiter is a fixed-window counter keyed by client IP. Safe for concurrent
// use; a single mutex is plenty at the request rates this guards.
type Limiter struct {
	mu      sync.Mutex
	records map[string]*record
	window  time.Duration
	limit   int
	now     func() time.Time
}

// NewLimiter creates a Limiter, filling zero config fields with defaults.
func NewLimiter(cfg Config) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Limiter{
		records: make(map[string]*record),
		window:  cfg.Window,
		limit:   cfg.Limit,
		now:     cfg.Now,
	}
}

// Allow records one request for key and reports whether it fits the current
// window. A record older than the window is reset rather than incremented.
//
// Every invocation also sweeps fully elapsed records from other keys, which
// bounds memory growth without a background timer.
func (l *Limiter) Allow(key string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepLocked(now)

	rec, ok := l.records[key]
	if !ok || now.Sub(rec.windowStart) >= l.window {
		l.records[key] = &record{count: 1, windowStart: now}
		return Result{Allowed: true, Remaining: l.limit - 1, Limit: l.limit}
	}

	rec.count++
	if rec.count > l.limit {
		return Result{Allowed: false, Limit: l.limit}
	}
	return Result{Allowed: true, Remaining: l.limit - rec.count, Limit: l.limit}
}

// Size returns the number of live records, for observability.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

func (l *Limiter) sweepLocked(now time.Time) {
	for key, rec := range l.records {
		if now.Sub(rec.windowStart) >= l.window {
			delete(l.records, key)
		}
	}
}

// ClientIP extracts the best-effort client IP from proxy headers: the first
// hop of x-forwarded-for, then x-real-ip, then the UnknownClient sentinel.
// RemoteAddr is deliberately not consulted: the portal always runs behind a
// proxy that sets these headers, and RemoteAddr would just be the proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("x-forwarded-for"); xff != "" {
		first := xff
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			first = xff[:idx]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("x-real-ip")); ip != "" {
		return ip
	}
	return UnknownClient
}
