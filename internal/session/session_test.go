// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/models"
)

func requestWithCookies(cookies map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/payments", nil)
	for name, value := range cookies {
		r.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	return r
}

func TestIdentity_Valid(t *testing.T) {
	r := requestWithCookies(map[string]string{
		CookieUserID: "64a7f9c2e1b0d83a5c9e4f01",
		CookieRole:   "tenant",
	})

	id, err := Identity(r)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	if id.UserID != "64a7f9c2e1b0d83a5c9e4f01" || id.Role != models.RoleTenant {
		t.Errorf("identity = %+v", id)
	}
}

func TestIdentity_MissingCookies(t *testing.T) {
	tests := []struct {
		name    string
		cookies map[string]string
	}{
		{"none", nil},
		{"only userId", map[string]string{CookieUserID: "abc"}},
		{"only role", map[string]string{CookieRole: "tenant"}},
		{"empty userId", map[string]string{CookieUserID: "", CookieRole: "tenant"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Identity(requestWithCookies(tt.cookies))
			if id != nil {
				t.Errorf("identity should be nil, got %+v", id)
			}
			if !errors.Is(err, ErrNoIdentity) {
				t.Errorf("want ErrNoIdentity, got %v", err)
			}
		})
	}
}

func TestIdentity_UnknownRoleRejected(t *testing.T) {
	r := requestWithCookies(map[string]string{
		CookieUserID: "u1",
		CookieRole:   "superadmin",
	})

	id, err := Identity(r)
	if id != nil {
		t.Errorf("identity should be nil for unknown role, got %+v", id)
	}
	if !errors.Is(err, ErrBadRole) {
		t.Errorf("want ErrBadRole, got %v", err)
	}
}

func TestImpersonationFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		cookies map[string]string
		want    Impersonation
	}{
		{
			"active",
			map[string]string{CookieIsImpersonating: "true", CookieImpersonatingTenantID: "t1"},
			Impersonation{Active: true, TenantID: "t1"},
		},
		{"absent", nil, Impersonation{}},
		{"flag not literally true", map[string]string{CookieIsImpersonating: "1", CookieImpersonatingTenantID: "t1"}, Impersonation{}},
		{"missing tenant id", map[string]string{CookieIsImpersonating: "true"}, Impersonation{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ImpersonationFromRequest(requestWithCookies(tt.cookies))
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEffectiveRole(t *testing.T) {
	owner := &models.Identity{UserID: "o1", Role: models.RolePropertyOwner}
	tenant := &models.Identity{UserID: "t1", Role: models.RoleTenant}
	admin := &models.Identity{UserID: "a1", Role: models.RoleAdmin}
	active := Impersonation{Active: true, TenantID: "t9"}

	tenantRoutes := models.NewRoleSet(models.RoleTenant)
	sharedRoutes := models.NewRoleSet(models.RolePropertyOwner, models.RoleTenant)
	ownerRoutes := models.NewRoleSet(models.RolePropertyOwner)

	tests := []struct {
		name    string
		id      *models.Identity
		imp     Impersonation
		allowed models.RoleSet
		want    models.Role
	}{
		{"impersonating owner on tenant-only route", owner, active, tenantRoutes, models.RoleTenant},
		{"impersonating owner on shared route", owner, active, sharedRoutes, models.RoleTenant},
		{"impersonating owner on owner-only route keeps owner", owner, active, ownerRoutes, models.RolePropertyOwner},
		{"owner without impersonation", owner, Impersonation{}, tenantRoutes, models.RolePropertyOwner},
		{"tenant never widened", tenant, active, ownerRoutes, models.RoleTenant},
		{"admin unaffected", admin, active, tenantRoutes, models.RoleAdmin},
		{"nil identity", nil, active, tenantRoutes, models.RoleUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveRole(tt.id, tt.imp, tt.allowed); got != tt.want {
				t.Errorf("EffectiveRole = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImpersonationCookieLifecycle(t *testing.T) {
	w := httptest.NewRecorder()
	StartImpersonation(w, "64a7f9c2e1b0d83a5c9e4f01", true)

	var sawFlag, sawTenant bool
	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case CookieIsImpersonating:
			sawFlag = true
			if c.Value != "true" || !c.Secure || c.Path != "/" {
				t.Errorf("flag cookie attributes wrong: %+v", c)
			}
		case CookieImpersonatingTenantID:
			sawTenant = true
			if c.Value != "64a7f9c2e1b0d83a5c9e4f01" {
				t.Errorf("tenant cookie value = %q", c.Value)
			}
		}
	}
	if !sawFlag || !sawTenant {
		t.Fatal("both impersonation cookies should be set")
	}

	w = httptest.NewRecorder()
	EndImpersonation(w)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge >= 0 {
			t.Errorf("cookie %s should be expired, MaxAge=%d", c.Name, c.MaxAge)
		}
	}
}
