// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package metrics exposes Prometheus instrumentation for the portal:
// gateway decisions, request latency/throughput, and rate-limiter activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestDuration observes end-to-end handling time per route.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrportal_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestsTotal counts requests per route and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrportal_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// APIActiveRequests gauges in-flight requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrportal_api_active_requests",
			Help: "Number of requests currently being handled",
		},
	)

	// GatewayDecisions counts gateway outcomes per decision branch:
	// allow, allow_public, allow_no_rule, unauthorized, forbidden,
	// csrf_rejected, rate_limited, internal_error.
	GatewayDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrportal_gateway_decisions_total",
			Help: "Total gateway authorization decisions by outcome",
		},
		[]string{"decision", "role"},
	)

	// RateLimitRejections counts requests dropped by the policy limiter.
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scrportal_rate_limit_rejections_total",
			Help: "Total mutating requests rejected by the fixed-window limiter",
		},
	)

	// RateLimitRecords gauges live records in the limiter table.
	RateLimitRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrportal_rate_limit_records",
			Help: "Number of live per-IP rate limit records",
		},
	)

	// CSRFTokensIssued counts minted double-submit tokens.
	CSRFTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scrportal_csrf_tokens_issued_total",
			Help: "Total CSRF tokens issued",
		},
	)
)

// RecordAPIRequest records one finished request.
func RecordAPIRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	APIRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	APIRequestsTotal.WithLabelValues(method, path, code).Inc()
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordGatewayDecision records one gateway outcome.
func RecordGatewayDecision(decision, role string) {
	GatewayDecisions.WithLabelValues(decision, role).Inc()
}
