// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package models defines the shared domain types of SCR Portal: the closed
// role enumeration, the authenticated identity, and the JSON response
// envelope returned by every API route.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the closed set of principal roles recognized by the portal.
// The zero value is Unauthenticated; cookie values outside the closed set
// are rejected at the parse boundary rather than propagated as free-form
// strings.
type Role uint8

const (
	// RoleUnauthenticated is the zero value: no valid identity cookies.
	RoleUnauthenticated Role = iota

	// RoleAdmin manages the whole portal.
	RoleAdmin

	// RolePropertyOwner manages their own properties, tenants and invoices.
	RolePropertyOwner

	// RoleTenant is a renter with access to their own tenancy data.
	RoleTenant
)

// Cookie wire values for roles. These are an external contract shared with
// the web frontend and must not change without a coordinated migration.
const (
	roleWireAdmin         = "admin"
	roleWirePropertyOwner = "propertyOwner"
	roleWireTenant        = "tenant"
)

// ErrUnknownRole is returned when a role cookie carries a value outside the
// closed enumeration.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts a cookie wire value into a Role. Unrecognized values
// yield ErrUnknownRole; the empty string is not a valid role either.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleWireAdmin:
		return RoleAdmin, nil
	case roleWirePropertyOwner:
		return RolePropertyOwner, nil
	case roleWireTenant:
		return RoleTenant, nil
	default:
		return RoleUnauthenticated, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// String returns the wire value of the role, or "unauthenticated" for the
// zero value.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return roleWireAdmin
	case RolePropertyOwner:
		return roleWirePropertyOwner
	case RoleTenant:
		return roleWireTenant
	default:
		return "unauthenticated"
	}
}

// RoleSet is a bitmask set of roles attached to a route rule.
type RoleSet uint8

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= 1 << r
	}
	// The unauthenticated pseudo-role never belongs to an allow set.
	s &^= 1 << RoleUnauthenticated
	return s
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(r Role) bool {
	if r == RoleUnauthenticated {
		return false
	}
	return s&(1<<r) != 0
}

// Empty reports whether no role is in the set. An empty set on a route rule
// means the route is public.
func (s RoleSet) Empty() bool {
	return s == 0
}

// Only reports whether the set contains exactly the given role.
func (s RoleSet) Only(r Role) bool {
	return s == NewRoleSet(r)
}

// String renders the set as a comma-separated list of wire values, for
// audit logging.
func (s RoleSet) String() string {
	var parts []string
	for _, r := range []Role{RoleAdmin, RolePropertyOwner, RoleTenant} {
		if s.Has(r) {
			parts = append(parts, r.String())
		}
	}
	return strings.Join(parts, ",")
}

// Identity is the authenticated principal read from request cookies.
//
// The portal performs no cryptographic verification of these cookies; the
// surrounding login flow is trusted to have set them. This is a deliberate,
// documented trust boundary, not an oversight.
type Identity struct {
	// UserID is the opaque user identifier (a 24-hex MongoDB-style id in
	// practice, treated as opaque here).
	UserID string

	// Role is the principal's real role, before impersonation resolution.
	Role Role
}
