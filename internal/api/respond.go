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
)

// respondJSON writes an APIResponse envelope with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

// respondData writes a successful envelope carrying a payload.
func respondData(w http.ResponseWriter, r *http.Request, data interface{}) {
	respondJSON(w, r, http.StatusOK, models.APIResponse{Success: true, Data: data})
}

// respondMessage writes a successful envelope carrying only a message.
func respondMessage(w http.ResponseWriter, r *http.Request, message string) {
	respondJSON(w, r, http.StatusOK, models.APIResponse{Success: true, Message: message})
}

// respondError writes a failure envelope.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, r, status, models.APIResponse{Success: false, Message: message})
}
