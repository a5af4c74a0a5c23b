// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/logging"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/models"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/session"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/validation"
)

// impersonateRequest is the body of POST /api/impersonate.
type impersonateRequest struct {
	TenantID string `json:"tenantId" validate:"required,objectid"`
}

// Impersonate switches a property owner into tenant view. The gateway has
// already restricted this route to property owners; this handler validates
// the target id and sets the impersonation cookies.
func (h *Handler) Impersonate(w http.ResponseWriter, r *http.Request) {
	var req impersonateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := session.Identity(r)
	if err != nil {
		respondError(w, r, http.StatusUnauthorized, models.MsgUnauthorized)
		return
	}

	session.StartImpersonation(w, req.TenantID, h.secureCookies)

	logging.Ctx(r.Context()).Info().
		Str("owner_id", id.UserID).
		Str("tenant_id", req.TenantID).
		Msg("impersonation started")

	respondData(w, r, map[string]interface{}{
		"impersonating": true,
		"tenantId":      req.TenantID,
	})
}

// ImpersonateRevert ends an impersonation session by clearing its cookies.
// Idempotent: reverting while not impersonating is a successful no-op.
func (h *Handler) ImpersonateRevert(w http.ResponseWriter, r *http.Request) {
	imp := session.ImpersonationFromRequest(r)
	session.EndImpersonation(w)

	if imp.Active {
		if id, err := session.Identity(r); err == nil {
			logging.Ctx(r.Context()).Info().
				Str("owner_id", id.UserID).
				Str("tenant_id", imp.TenantID).
				Msg("impersonation ended")
		}
	}

	respondMessage(w, r, "Impersonation ended")
}
