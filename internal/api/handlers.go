// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package api mounts the portal's HTTP surface: the authorization gateway,
// token issuance, impersonation control, health and metrics endpoints, and
// the protected resource routes.
package api

import (
	"net/http"
	"time"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/session"
)

// Handler carries the dependencies of the portal's HTTP handlers.
type Handler struct {
	// secureCookies enables the Secure flag on cookies set by handlers.
	secureCookies bool

	startTime time.Time
}

// NewHandler creates the handler set. secureCookies should be true in
// production where the portal terminates TLS.
func NewHandler(secureCookies bool) *Handler {
	return &Handler{
		secureCookies: secureCookies,
		startTime:     time.Now(),
	}
}

// HealthLive reports process liveness for container orchestration.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HealthReady reports readiness to serve traffic. The gateway holds no
// external connections, so readiness follows liveness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]interface{}{"status": "ready"})
}

// PublicProperties serves the anonymous property listing feed. It sits in
// front of authentication on purpose: prospective tenants browse without an
// account.
func (h *Handler) PublicProperties(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, []interface{}{})
}

// resourceStub returns a placeholder handler for protected resource routes.
// The access decision has already been made by the gateway when these run;
// the handlers echo the authenticated identity so integration tests can
// assert what reached the backend.
func (h *Handler) resourceStub(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]interface{}{"resource": resource}
		if id, err := session.Identity(r); err == nil {
			payload["userId"] = id.UserID
			payload["role"] = id.Role.String()
		}
		respondData(w, r, payload)
	}
}
