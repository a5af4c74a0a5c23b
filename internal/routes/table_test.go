// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

package routes

import (
	"errors"
	"testing"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/models"
)

const hexID = "64a7f9c2e1b0d83a5c9e4f01"

func defaultTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(DefaultRules())
	if err != nil {
		t.Fatalf("NewTable(DefaultRules()): %v", err)
	}
	return table
}

func TestClassify_Exact(t *testing.T) {
	table := defaultTable(t)

	r, ok := table.Classify("/api/csrf-token")
	if !ok {
		t.Fatal("csrf-token route should classify")
	}
	if !r.Public() || !r.CSRFExempt || !r.IsAPI {
		t.Errorf("csrf-token rule flags wrong: %+v", r)
	}
}

func TestClassify_Param(t *testing.T) {
	table := defaultTable(t)

	r, ok := table.Classify("/api/tenants/" + hexID)
	if !ok {
		t.Fatal("parameterized tenant route should classify")
	}
	if r.Kind != MatchParam {
		t.Errorf("kind = %v, want param", r.Kind)
	}
	if !r.TenantScoped {
		t.Error("tenant id route should be tenant scoped")
	}

	// A non-hex segment of the right length falls back to the prefix rule.
	r, ok = table.Classify("/api/tenants/not-a-hex-identifier-xx")
	if !ok || r.Kind != MatchPrefix {
		t.Errorf("non-hex segment should fall through to prefix rule, got %+v ok=%v", r, ok)
	}

	// Too-short ids are not identifiers.
	r, ok = table.Classify("/api/tenants/abc123")
	if !ok || r.Kind != MatchPrefix {
		t.Errorf("short segment should fall through to prefix rule, got %+v ok=%v", r, ok)
	}
}

func TestClassify_LongestPrefixWins(t *testing.T) {
	admin := models.NewRoleSet(models.RoleAdmin)
	owner := models.NewRoleSet(models.RolePropertyOwner)
	table, err := NewTable([]Rule{
		{Key: "/api", Kind: MatchPrefix, Roles: admin, IsAPI: true},
		{Key: "/api/wallet", Kind: MatchPrefix, Roles: owner, IsAPI: true},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	r, ok := table.Classify("/api/wallet/topup")
	if !ok {
		t.Fatal("should classify")
	}
	if !r.Roles.Has(models.RolePropertyOwner) {
		t.Error("longest prefix /api/wallet should win over /api")
	}

	r, ok = table.Classify("/api/other")
	if !ok || !r.Roles.Has(models.RoleAdmin) {
		t.Error("shorter prefix should still match non-overlapping paths")
	}
}

func TestClassify_PrefixIsSegmentAligned(t *testing.T) {
	table := defaultTable(t)

	// "/api/payments-export" must not match the "/api/payments" prefix.
	r, ok := table.Classify("/api/payments-export")
	if ok && r.Key == "/api/payments" {
		t.Error("prefix match must be segment aligned")
	}
}

func TestClassify_NoRuleIsFailOpen(t *testing.T) {
	table := defaultTable(t)

	if _, ok := table.Classify("/property-listings/whatever"); ok {
		t.Error("unlisted public page family should have no rule")
	}
	if _, ok := table.Classify("/login"); ok {
		t.Error("/login should have no rule")
	}
}

func TestClassify_TrailingSlash(t *testing.T) {
	table := defaultTable(t)

	a, okA := table.Classify("/api/payments")
	b, okB := table.Classify("/api/payments/")
	if !okA || !okB || a != b {
		t.Error("trailing slash should not change classification")
	}
}

func TestNewTable_RejectsDuplicates(t *testing.T) {
	owner := models.NewRoleSet(models.RolePropertyOwner)
	_, err := NewTable([]Rule{
		{Key: "/api/wallet", Kind: MatchPrefix, Roles: owner},
		{Key: "/api/wallet", Kind: MatchPrefix, Roles: owner},
	})
	if !errors.Is(err, ErrDuplicateRule) {
		t.Errorf("want ErrDuplicateRule, got %v", err)
	}
}

func TestNewTable_RejectsAmbiguousOverlap(t *testing.T) {
	owner := models.NewRoleSet(models.RolePropertyOwner)
	_, err := NewTable([]Rule{
		{Key: "/api/wallet", Kind: MatchPrefix, Roles: owner},
		{Key: "/api/wallet", Kind: MatchExact, Roles: owner},
	})
	if !errors.Is(err, ErrAmbiguousRule) {
		t.Errorf("want ErrAmbiguousRule, got %v", err)
	}
}

func TestNewTable_RejectsSameShapeParamRules(t *testing.T) {
	// Placeholder names are not identity: these two patterns match exactly
	// the same paths, so accepting both would leave the winner to slice
	// order.
	owner := models.NewRoleSet(models.RolePropertyOwner)
	tenant := models.NewRoleSet(models.RoleTenant)
	_, err := NewTable([]Rule{
		{Key: "/api/tenants/{tenantId}", Kind: MatchParam, Roles: owner, IsAPI: true},
		{Key: "/api/tenants/{leaseId}", Kind: MatchParam, Roles: tenant, IsAPI: true},
	})
	if !errors.Is(err, ErrAmbiguousRule) {
		t.Errorf("want ErrAmbiguousRule for identically-shaped param rules, got %v", err)
	}

	// Identical raw keys of the same kind stay a plain duplicate.
	_, err = NewTable([]Rule{
		{Key: "/api/tenants/{tenantId}", Kind: MatchParam, Roles: owner, IsAPI: true},
		{Key: "/api/tenants/{tenantId}", Kind: MatchParam, Roles: tenant, IsAPI: true},
	})
	if !errors.Is(err, ErrDuplicateRule) {
		t.Errorf("want ErrDuplicateRule for identical param keys, got %v", err)
	}
}

func TestNewTable_RejectsMalformedKeys(t *testing.T) {
	tests := []Rule{
		{Key: "", Kind: MatchExact},
		{Key: "api/no-slash", Kind: MatchExact},
		{Key: "/trailing/", Kind: MatchPrefix},
		{Key: "/api/tenants/static", Kind: MatchParam}, // no {id} segment
	}
	for _, r := range tests {
		if _, err := NewTable([]Rule{r}); !errors.Is(err, ErrInvalidRule) {
			t.Errorf("key %q: want ErrInvalidRule, got %v", r.Key, err)
		}
	}
}

func TestIsHexID(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{hexID, true},
		{"64A7F9C2E1B0D83A5C9E4F01", true},
		{"64a7f9c2e1b0d83a5c9e4f0", false},   // 23 chars
		{"64a7f9c2e1b0d83a5c9e4f012", false}, // 25 chars
		{"64a7f9c2e1b0d83a5c9e4g01", false},  // non-hex rune
		{"", false},
	}
	for _, tt := range tests {
		if got := IsHexID(tt.in); got != tt.want {
			t.Errorf("IsHexID(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultRulesCompile(t *testing.T) {
	if _, err := NewTable(DefaultRules()); err != nil {
		t.Fatalf("default table must compile: %v", err)
	}
}

func TestAdminOnly(t *testing.T) {
	table := defaultTable(t)

	r, ok := table.Classify("/api/admin/stats")
	if !ok {
		t.Fatal("admin route should classify")
	}
	if !r.AdminOnly() {
		t.Error("/api/admin should be admin only")
	}

	r, ok = table.Classify("/api/payments")
	if !ok || r.AdminOnly() {
		t.Error("/api/payments should not be admin only")
	}
}
