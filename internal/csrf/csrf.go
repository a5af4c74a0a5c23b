// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package csrf implements stateless double-submit CSRF protection.
//
// A token is minted on demand by the issuance endpoint, returned in the JSON
// body and set as an httpOnly cookie. Mutating API calls must echo the token
// in the x-csrf-token header; validity is byte-equality of header and cookie,
// compared in constant time. There is no server-side token registry; the
// pattern works unchanged across processes and restarts, which is why it was
// chosen over synchronizer tokens. Expiry rides on the cookie's MaxAge.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/logging"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/metrics"
)

// Validation errors.
var (
	// ErrTokenMissing indicates the cookie or header token is absent.
	ErrTokenMissing = errors.New("csrf token missing")

	// ErrTokenMismatch indicates header and cookie tokens differ.
	ErrTokenMismatch = errors.New("csrf token mismatch")
)

// Config holds CSRF guard settings.
type Config struct {
	// CookieName is the token cookie name. Default: "csrf-token".
	// External contract with the web frontend.
	CookieName string

	// HeaderName is the request header clients echo the token in.
	// Default: "x-csrf-token".
	HeaderName string

	// TokenLength is the random token size in bytes. Default: 32.
	TokenLength int

	// TokenTTL is the cookie lifetime. Default: 1h. Token validity is
	// independent of the user session.
	TokenTTL time.Duration

	// CookieSecure sets the Secure flag; enabled in production.
	CookieSecure bool
}

// DefaultConfig returns the portal's CSRF defaults.
func DefaultConfig() Config {
	return Config{
		CookieName:  "csrf-token",
		HeaderName:  "x-csrf-token",
		TokenLength: 32,
		TokenTTL:    time.Hour,
	}
}

// Guard issues and validates double-submit tokens.
type Guard struct {
	config Config
}

// NewGuard creates a Guard, filling zero config fields with defaults.
func NewGuard(config Config) *Guard {
	def := DefaultConfig()
	if config.CookieName == "" {
		config.CookieName = def.CookieName
	}
	if config.HeaderName == "" {
		config.HeaderName = def.HeaderName
	}
	if config.TokenLength <= 0 {
		config.TokenLength = def.TokenLength
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = def.TokenTTL
	}
	return &Guard{config: config}
}

// tokenResponse is the issuance endpoint's body shape, an external contract.
type tokenResponse struct {
	Success   bool   `json:"success"`
	CSRFToken string `json:"csrfToken"`
}

// IssueHandler mints a fresh token, sets it as an httpOnly strict-samesite
// cookie and returns it in the JSON body. This is the only route exempt from
// requiring a token itself.
func (g *Guard) IssueHandler(w http.ResponseWriter, r *http.Request) {
	token, err := g.generateToken()
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("csrf: token generation failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Internal server error"}`))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     g.config.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.config.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   g.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	metrics.CSRFTokensIssued.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(tokenResponse{Success: true, CSRFToken: token}); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("csrf: failed to write token response")
	}
}

// Validate checks the double-submit pair on a mutating request. The request
// is valid iff the cookie token is present and the header token equals it
// exactly; absence of either is ErrTokenMissing, inequality is
// ErrTokenMismatch.
func (g *Guard) Validate(r *http.Request) error {
	cookie, err := r.Cookie(g.config.CookieName)
	if err != nil || cookie.Value == "" {
		return ErrTokenMissing
	}

	header := r.Header.Get(g.config.HeaderName)
	if header == "" {
		return ErrTokenMissing
	}

	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}

// HeaderName exposes the configured header name for CORS allow lists.
func (g *Guard) HeaderName() string {
	return g.config.HeaderName
}

func (g *Guard) generateToken() (string, error) {
	buf := make([]byte, g.config.TokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
