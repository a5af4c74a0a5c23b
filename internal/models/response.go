// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

package models

// APIResponse is the JSON envelope returned by every API route.
//
// The success/message shape is an external contract shared with the web
// frontend: error branches always carry `{"success":false,"message":...}`.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Canonical error messages emitted by the gateway. Clients match on these
// strings, so they are constants rather than ad-hoc literals.
const (
	MsgUnauthorized    = "Unauthorized"
	MsgForbidden       = "Forbidden"
	MsgAccessDenied    = "Access denied"
	MsgInvalidCSRF     = "Invalid CSRF token"
	MsgTooManyRequests = "Too many requests. Please try again later."
	MsgInternalError   = "Internal server error"
)
