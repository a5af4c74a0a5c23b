// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package routes holds the static access-control table that the gateway
// consults for every request. A rule maps a route key to the set of roles
// allowed to call it plus per-route flags (API vs page, CSRF handling,
// tenant scoping).
//
// Matching is deterministic: exact match first, then the parameterized
// 24-hex-identifier pattern, then longest segment-aligned prefix. Overlapping
// rule keys are rejected when the table is built, so iteration order can
// never change the outcome. Paths matching no rule are allowed (fail-open):
// any new sensitive route must be added here explicitly or it is
// unprotected; the gateway logs that branch so coverage gaps are auditable.
package routes

import (
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/models"
)

// MatchKind identifies how a rule key matches request paths.
type MatchKind uint8

const (
	// MatchExact matches the full path byte-for-byte.
	MatchExact MatchKind = iota

	// MatchParam matches a pattern whose "{...}" segments each stand for a
	// 24-character hexadecimal identifier.
	MatchParam

	// MatchPrefix matches any path for which the rule key is a
	// segment-aligned ancestor (key + "/" prefixes the path, or equals it).
	MatchPrefix
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchParam:
		return "param"
	case MatchPrefix:
		return "prefix"
	default:
		return "unknown"
	}
}

// Rule is one entry of the access-control table.
type Rule struct {
	// Key is the route path, path pattern, or path prefix, without a
	// trailing slash.
	Key string

	// Kind selects the matching strategy for Key.
	Kind MatchKind

	// Roles is the set of roles allowed to call the route. An empty set
	// marks the route public: it is classified but requires no identity.
	Roles models.RoleSet

	// IsAPI distinguishes JSON error envelopes (API) from login redirects
	// (pages) on denial.
	IsAPI bool

	// CSRFExempt disables the double-submit check even for mutating calls.
	// Reserved for the token issuance endpoint and webhook-style routes.
	CSRFExempt bool

	// CSRFSelfHandled marks routes that validate their own CSRF token
	// (multipart upload handlers that must read the body first).
	CSRFSelfHandled bool

	// TenantScoped enables the cross-tenant ownership check: the 24-hex id
	// embedded in the path must equal the caller's own user id when the
	// caller is a genuine tenant.
	TenantScoped bool
}

// AdminOnly reports whether the rule admits only the admin role. Admin-only
// API routes skip the CSRF double-submit check.
func (r *Rule) AdminOnly() bool {
	return r.Roles.Only(models.RoleAdmin)
}

// Public reports whether the rule requires no authentication.
func (r *Rule) Public() bool {
	return r.Roles.Empty()
}

// DefaultRules is the compiled-in access-control table of the portal.
// The table is data, not behavior: adding a route here is the only way to
// protect it.
func DefaultRules() []Rule {
	adminOnly := models.NewRoleSet(models.RoleAdmin)
	ownerOnly := models.NewRoleSet(models.RolePropertyOwner)
	ownerOrTenant := models.NewRoleSet(models.RolePropertyOwner, models.RoleTenant)
	anyRole := models.NewRoleSet(models.RoleAdmin, models.RolePropertyOwner, models.RoleTenant)
	adminOrOwner := models.NewRoleSet(models.RoleAdmin, models.RolePropertyOwner)

	return []Rule{
		// Token issuance is the only endpoint exempt from requiring a token.
		{Key: "/api/csrf-token", Kind: MatchExact, IsAPI: true, CSRFExempt: true},

		// Admin surface.
		{Key: "/api/admin", Kind: MatchPrefix, Roles: adminOnly, IsAPI: true},

		// Owner-only operations.
		{Key: "/api/impersonate", Kind: MatchExact, Roles: ownerOnly, IsAPI: true},
		{Key: "/api/impersonate/revert", Kind: MatchExact, Roles: ownerOnly, IsAPI: true},
		{Key: "/api/wallet", Kind: MatchPrefix, Roles: ownerOnly, IsAPI: true},
		{Key: "/api/invoices", Kind: MatchPrefix, Roles: ownerOnly, IsAPI: true},

		// Shared owner/tenant surface.
		{Key: "/api/payments", Kind: MatchPrefix, Roles: ownerOrTenant, IsAPI: true},
		{Key: "/api/profile", Kind: MatchPrefix, Roles: ownerOrTenant, IsAPI: true},
		{Key: "/api/dues", Kind: MatchPrefix, Roles: ownerOrTenant, IsAPI: true},
		{Key: "/api/maintenance", Kind: MatchPrefix, Roles: ownerOrTenant, IsAPI: true},

		// Per-tenant resources. The parameterized rule carries the ownership
		// check; the prefix rule covers collection-level calls.
		{Key: "/api/tenants/{tenantId}", Kind: MatchParam, Roles: anyRole, IsAPI: true, TenantScoped: true},
		{Key: "/api/tenants", Kind: MatchPrefix, Roles: anyRole, IsAPI: true, TenantScoped: true},

		// Property management. Multipart photo uploads parse their own body
		// and validate the CSRF token inside the handler.
		{Key: "/api/properties", Kind: MatchPrefix, Roles: adminOrOwner, IsAPI: true},
		{Key: "/api/uploads", Kind: MatchPrefix, Roles: adminOrOwner, IsAPI: true, CSRFSelfHandled: true},
		{Key: "/api/reports", Kind: MatchPrefix, Roles: adminOrOwner, IsAPI: true},

		// Role dashboards (page routes redirect to /login on denial).
		{Key: "/dashboard", Kind: MatchPrefix, Roles: adminOnly},
		{Key: "/owner", Kind: MatchPrefix, Roles: ownerOnly},
		{Key: "/tenant", Kind: MatchPrefix, Roles: models.NewRoleSet(models.RoleTenant)},

		// /property-listings and /login carry no rule on purpose: they are
		// public pages served through the fail-open default.
	}
}
