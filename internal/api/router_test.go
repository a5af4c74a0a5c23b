// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/config"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/csrf"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/gateway"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/models"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/ratelimit"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/routes"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/session"
)

const testTenantID = "507f1f77bcf86cd799439011"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Security: config.SecurityConfig{
			CORSOrigins: []string{"http://localhost:3000"},
			EdgeThrottle: config.EdgeThrottleConfig{
				Enabled: true,
				Limit:   1000,
				Window:  time.Minute,
			},
		},
	}

	table, err := routes.NewTable(routes.DefaultRules())
	if err != nil {
		t.Fatalf("building route table: %v", err)
	}
	guard := csrf.NewGuard(csrf.Config{})
	limiter := ratelimit.NewLimiter(ratelimit.Config{})
	gw := gateway.New(table, guard, limiter)

	return NewRouter(cfg, gw, guard, NewHandler(false))
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCSRFTokenIssuance(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Success   bool   `json:"success"`
		CSRFToken string `json:"csrfToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if !body.Success || body.CSRFToken == "" {
		t.Fatalf("body = %+v, want success with token", body)
	}

	cookie := findCookie(t, rec, "csrf-token")
	if cookie == nil {
		t.Fatal("csrf-token cookie not set")
	}
	if cookie.Value != body.CSRFToken {
		t.Error("cookie token differs from body token")
	}
	if !cookie.HttpOnly {
		t.Error("csrf cookie must be httpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", cookie.SameSite)
	}
}

func TestImpersonationFlow(t *testing.T) {
	router := newTestRouter(t)

	asOwner := func(req *http.Request) *http.Request {
		req.AddCookie(&http.Cookie{Name: session.CookieUserID, Value: "owner-1"})
		req.AddCookie(&http.Cookie{Name: session.CookieRole, Value: "propertyOwner"})
		req.AddCookie(&http.Cookie{Name: "csrf-token", Value: "tok-test"})
		req.Header.Set("x-csrf-token", "tok-test")
		return req
	}

	t.Run("start sets impersonation cookies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"tenantId":"` + testTenantID + `"}`)
		router.ServeHTTP(rec, asOwner(httptest.NewRequest(http.MethodPost, "/api/impersonate", body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		flag := findCookie(t, rec, session.CookieIsImpersonating)
		if flag == nil || flag.Value != "true" {
			t.Fatalf("isImpersonating cookie = %+v, want true", flag)
		}
		target := findCookie(t, rec, session.CookieImpersonatingTenantID)
		if target == nil || target.Value != testTenantID {
			t.Fatalf("impersonatingTenantId cookie = %+v, want %s", target, testTenantID)
		}
	})

	t.Run("invalid tenant id rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"tenantId":"not-an-id"}`)
		router.ServeHTTP(rec, asOwner(httptest.NewRequest(http.MethodPost, "/api/impersonate", body)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("tenant cannot start impersonation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := strings.NewReader(`{"tenantId":"` + testTenantID + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/impersonate", body)
		req.AddCookie(&http.Cookie{Name: session.CookieUserID, Value: testTenantID})
		req.AddCookie(&http.Cookie{Name: session.CookieRole, Value: "tenant"})
		req.AddCookie(&http.Cookie{Name: "csrf-token", Value: "tok-test"})
		req.Header.Set("x-csrf-token", "tok-test")
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("revert clears impersonation cookies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := asOwner(httptest.NewRequest(http.MethodPost, "/api/impersonate/revert", nil))
		req.AddCookie(&http.Cookie{Name: session.CookieIsImpersonating, Value: "true"})
		req.AddCookie(&http.Cookie{Name: session.CookieImpersonatingTenantID, Value: testTenantID})
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		flag := findCookie(t, rec, session.CookieIsImpersonating)
		if flag == nil || flag.MaxAge >= 0 {
			t.Fatalf("isImpersonating cookie = %+v, want expired", flag)
		}
	})
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/health/live", "/api/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestProtectedResourceEchoesIdentity(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dues", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieUserID, Value: testTenantID})
	req.AddCookie(&http.Cookie{Name: session.CookieRole, Value: "tenant"})
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Data = %T, want object", resp.Data)
	}
	if data["role"] != "tenant" || data["userId"] != testTenantID {
		t.Errorf("data = %v, want tenant identity echoed", data)
	}
}

func TestAnonymousProtectedRequestRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dues", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
