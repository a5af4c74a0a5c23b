// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package session reads the portal's identity and impersonation cookies.
//
// There is no server-side session store and no cryptographic verification of
// cookie integrity: the surrounding login flow is trusted to have set the
// cookies. That trust boundary is deliberate and documented; anyone
// replacing this layer should either keep it explicit or move to signed
// session tokens, but must not silently change the cookie contract.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/models"
)

// Cookie names shared with the web frontend. External contract.
const (
	CookieUserID                = "userId"
	CookieRole                  = "role"
	CookieIsImpersonating       = "isImpersonating"
	CookieImpersonatingTenantID = "impersonatingTenantId"
)

// impersonationTTL bounds how long an owner can stay in tenant view without
// re-initiating.
const impersonationTTL = 4 * time.Hour

// Authentication parse errors.
var (
	// ErrNoIdentity indicates one or both identity cookies are absent.
	ErrNoIdentity = errors.New("no identity cookies")

	// ErrBadRole indicates the role cookie carried an unrecognized value.
	ErrBadRole = errors.New("unparseable role cookie")
)

// Identity extracts the caller's identity from request cookies.
// Returns nil with a describing error when the request is unauthenticated
// or carries an unrecognized role; the caller decides whether that is a 401
// or a redirect. This function never panics on malformed input.
func Identity(r *http.Request) (*models.Identity, error) {
	userID, err := cookieValue(r, CookieUserID)
	if err != nil || userID == "" {
		return nil, ErrNoIdentity
	}
	roleRaw, err := cookieValue(r, CookieRole)
	if err != nil || roleRaw == "" {
		return nil, ErrNoIdentity
	}

	role, err := models.ParseRole(roleRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRole, err)
	}

	return &models.Identity{UserID: userID, Role: role}, nil
}

// Impersonation is the owner-acting-as-tenant state carried in
// cookies, set by the impersonation endpoint and cleared by revert.
type Impersonation struct {
	// Active is true when the isImpersonating cookie is literally "true".
	Active bool

	// TenantID is the impersonated tenant's user id, when active.
	TenantID string
}

// ImpersonationFromRequest reads the impersonation cookies. Absent or
// malformed cookies yield the inactive zero value; impersonation without a
// tenant id is treated as inactive.
func ImpersonationFromRequest(r *http.Request) Impersonation {
	flag, err := cookieValue(r, CookieIsImpersonating)
	if err != nil || flag != "true" {
		return Impersonation{}
	}
	tenantID, err := cookieValue(r, CookieImpersonatingTenantID)
	if err != nil || tenantID == "" {
		return Impersonation{}
	}
	return Impersonation{Active: true, TenantID: tenantID}
}

// EffectiveRole computes the role used for authorization decisions.
//
// Impersonation only ever narrows a property owner toward tenant-scoped
// routes: it applies when the real role is PropertyOwner, impersonation is
// active, and the route's allowed set contains Tenant. It never grants an
// admin or tenant anything beyond their real role, and it never mutates the
// underlying session cookies.
func EffectiveRole(id *models.Identity, imp Impersonation, allowed models.RoleSet) models.Role {
	if id == nil {
		return models.RoleUnauthenticated
	}
	if imp.Active && id.Role == models.RolePropertyOwner && allowed.Has(models.RoleTenant) {
		return models.RoleTenant
	}
	return id.Role
}

// StartImpersonation sets the impersonation cookies on the response. Called
// by the owner-only impersonation endpoint after it has verified the tenant
// belongs to the owner.
func StartImpersonation(w http.ResponseWriter, tenantID string, secure bool) {
	setCookie(w, CookieIsImpersonating, "true", secure)
	setCookie(w, CookieImpersonatingTenantID, tenantID, secure)
}

// EndImpersonation clears the impersonation cookies.
func EndImpersonation(w http.ResponseWriter) {
	expireCookie(w, CookieIsImpersonating)
	expireCookie(w, CookieImpersonatingTenantID)
}

func setCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(impersonationTTL.Seconds()),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func cookieValue(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
