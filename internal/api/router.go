// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/config"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/csrf"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/gateway"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/middleware"
)

// NewRouter assembles the portal's HTTP stack. Ordering matters: request id,
// then CORS, security headers, the edge throttle, metrics, and finally the
// authorization gateway in front of the handlers.
//
// The edge throttle is a coarse pre-auth flood brake; the per-IP policy
// limiter for mutating calls lives inside the gateway where it can apply
// after route classification.
func NewRouter(cfg *config.Config, gw *gateway.Gateway, guard *csrf.Guard, h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", guard.HeaderName()},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.APISecurityHeaders)
	if cfg.Security.EdgeThrottle.Enabled {
		r.Use(httprate.LimitByIP(cfg.Security.EdgeThrottle.Limit, cfg.Security.EdgeThrottle.Window))
	}
	r.Use(middleware.PrometheusMetrics)
	r.Use(gw.Middleware)

	// Operational endpoints. Unlisted in the policy table: fail-open routes
	// that expose no tenant data.
	r.Get("/api/health/live", h.HealthLive)
	r.Get("/api/health/ready", h.HealthReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Token issuance, the one endpoint exempt from requiring a token.
	r.Get("/api/csrf-token", guard.IssueHandler)

	// Anonymous listing feed.
	r.Get("/api/public-properties", h.PublicProperties)

	// Impersonation control, owner-only per the policy table.
	r.Post("/api/impersonate", h.Impersonate)
	r.Post("/api/impersonate/revert", h.ImpersonateRevert)

	// Protected resource families. Authorization already happened in the
	// gateway; these serve the domain payloads.
	mountResource := func(pattern, name string) {
		handler := h.resourceStub(name)
		r.HandleFunc(pattern, handler)
		r.HandleFunc(pattern+"/*", handler)
	}
	mountResource("/api/admin", "admin")
	mountResource("/api/wallet", "wallet")
	mountResource("/api/invoices", "invoices")
	mountResource("/api/payments", "payments")
	mountResource("/api/profile", "profile")
	mountResource("/api/dues", "dues")
	mountResource("/api/maintenance", "maintenance")
	mountResource("/api/tenants", "tenants")
	mountResource("/api/properties", "properties")
	mountResource("/api/uploads", "uploads")
	mountResource("/api/reports", "reports")

	return r
}
