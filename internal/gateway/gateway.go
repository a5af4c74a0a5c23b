// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package gateway is the request-authorization middleware in front of the
// portal's routes. Per request it classifies the route, authenticates the
// caller from cookies, resolves impersonation, checks role and tenant
// ownership, and on mutating API calls applies rate limiting and CSRF
// validation before passing through.
//
// Exactly one decision is emitted per request: pass-through, a redirect for
// page routes, or a JSON error envelope for API routes. Every branch is
// logged with path, method, role and elapsed time. A panic anywhere in the
// pipeline is caught at the outer boundary and converted to a generic 500,
// so internal detail never reaches the client.
package gateway

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/csrf"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/logging"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/metrics"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/models"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/ratelimit"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/routes"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/session"
)

// Path specials handled before any classification or auth logic.
const (
	// LoginPath is where unauthenticated page requests are redirected.
	LoginPath = "/login"

	// PublicListingPath short-circuits to allow regardless of cookie state.
	PublicListingPath = "/api/public-properties"

	// legacyPropertiesPrefix is permanently redirected to the new shape.
	legacyPropertiesPrefix = "/properties/"
	listingsPrefix         = "/property-listings/"
)

// staticPrefixes are asset paths the gateway ignores entirely.
var staticPrefixes = []string{"/_next/", "/static/", "/assets/"}

// tenantSelfServicePrefixes are sub-paths of the tenant resource family
// exempt from the cross-tenant ownership check (they address the caller
// implicitly, not via a path id).
var tenantSelfServicePrefixes = []string{
	"/api/tenants/self",
	"/api/tenants/profile",
}

// Gateway evaluates the access policy for every inbound request.
// Construct with New; the zero value is not usable.
type Gateway struct {
	table   *routes.Table
	guard   *csrf.Guard
	limiter *ratelimit.Limiter
	log     zerolog.Logger
}

// New assembles a Gateway from its injected collaborators. The limiter and
// guard are owned by the caller so tests and multi-router setups get
// isolated instances.
func New(table *routes.Table, guard *csrf.Guard, limiter *ratelimit.Limiter) *Gateway {
	return &Gateway{
		table:   table,
		guard:   guard,
		limiter: limiter,
		log:     logging.WithComponent("gateway"),
	}
}

// Middleware returns the gateway as a chi-compatible middleware.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.handle(w, r, next)
	})
}

func (g *Gateway) handle(w http.ResponseWriter, r *http.Request, next http.Handler) {
	start := time.Now()
	path := r.URL.Path

	defer func() {
		if rec := recover(); rec != nil {
			g.log.Error().
				Str("path", path).
				Str("method", r.Method).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic in request pipeline")
			metrics.RecordGatewayDecision("internal_error", "")
			g.writeJSON(w, http.StatusInternalServerError, models.MsgInternalError)
		}
	}()

	// Static assets bypass the pipeline entirely.
	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			next.ServeHTTP(w, r)
			return
		}
	}
	if path == "/favicon.ico" {
		next.ServeHTTP(w, r)
		return
	}

	// Legacy property-detail URLs moved permanently, before any auth logic.
	if rest, ok := strings.CutPrefix(path, legacyPropertiesPrefix); ok && rest != "" {
		target := listingsPrefix + rest
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	// The public listing endpoint never reaches authentication.
	if path == PublicListingPath || strings.HasPrefix(path, PublicListingPath+"/") {
		next.ServeHTTP(w, r)
		return
	}

	rule, ok := g.table.Classify(path)
	if !ok {
		// Fail-open by design for unlisted routes, but loudly: operators
		// audit coverage gaps from this log line.
		g.decision(r, start, "allow_no_rule", models.RoleUnauthenticated, zerolog.InfoLevel).
			Msg("no policy found, allowing")
		next.ServeHTTP(w, r)
		return
	}

	if rule.Public() {
		g.decision(r, start, "allow_public", models.RoleUnauthenticated, zerolog.DebugLevel).
			Msg("public route")
		next.ServeHTTP(w, r)
		return
	}

	identity, err := session.Identity(r)
	if identity == nil {
		g.decision(r, start, "unauthorized", models.RoleUnauthenticated, zerolog.WarnLevel).
			AnErr("reason", err).
			Msg("unauthenticated request to protected route")
		if rule.IsAPI {
			g.writeJSON(w, http.StatusUnauthorized, models.MsgUnauthorized)
			return
		}
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	imp := session.ImpersonationFromRequest(r)
	effective := session.EffectiveRole(identity, imp, rule.Roles)

	if !rule.Roles.Has(effective) {
		g.decision(r, start, "forbidden", effective, zerolog.WarnLevel).
			Str("allowed_roles", rule.Roles.String()).
			Bool("impersonating", imp.Active).
			Msg("role not allowed for route")
		if rule.IsAPI {
			g.writeJSON(w, http.StatusForbidden, models.MsgForbidden)
			return
		}
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	// Horizontal escalation check: a genuine tenant may only address their
	// own per-tenant resources.
	if rule.TenantScoped && identity.Role == models.RoleTenant && !imp.Active {
		if owner, mismatch := tenantIDMismatch(path, identity.UserID); mismatch {
			g.decision(r, start, "forbidden", effective, zerolog.WarnLevel).
				Str("path_tenant_id", owner).
				Msg("cross-tenant access denied")
			g.writeJSON(w, http.StatusForbidden, models.MsgAccessDenied)
			return
		}
	}

	// Mutating API calls pay the rate-limit and CSRF toll. Rate limiting
	// always runs; the CSRF check is skipped for admin-only, self-handling
	// and exempt routes.
	if rule.IsAPI && r.Method != http.MethodGet {
		res := g.limiter.Allow(ratelimit.ClientIP(r))
		metrics.RateLimitRecords.Set(float64(g.limiter.Size()))
		if !res.Allowed {
			metrics.RateLimitRejections.Inc()
			g.decision(r, start, "rate_limited", effective, zerolog.WarnLevel).
				Str("client_ip", ratelimit.ClientIP(r)).
				Msg("rate limit exceeded")
			g.writeJSON(w, http.StatusTooManyRequests, models.MsgTooManyRequests)
			return
		}
		if !rule.AdminOnly() && !rule.CSRFSelfHandled && !rule.CSRFExempt {
			if err := g.guard.Validate(r); err != nil {
				g.decision(r, start, "csrf_rejected", effective, zerolog.ErrorLevel).
					Str("client_ip", ratelimit.ClientIP(r)).
					AnErr("reason", err).
					Msg("csrf validation failed")
				g.writeJSON(w, http.StatusForbidden, models.MsgInvalidCSRF)
				return
			}
		}

		// Only requests that are actually forwarded advertise their budget.
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	}

	g.decision(r, start, "allow", effective, zerolog.DebugLevel).Msg("request authorized")
	next.ServeHTTP(w, r)
}

// tenantIDMismatch inspects the third path segment of a tenant-scoped path.
// It reports a mismatch only when that segment is a 24-hex identifier, the
// path is not a whitelisted self-service sub-path, and the id differs from
// the caller's own.
func tenantIDMismatch(path, userID string) (string, bool) {
	for _, prefix := range tenantSelfServicePrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return "", false
		}
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 3 {
		return "", false
	}
	id := segments[2]
	if !routes.IsHexID(id) {
		return "", false
	}
	return id, id != userID
}

// decision starts a structured log event for one gateway outcome and records
// the decision metric. Logging never aborts the response: zerolog events
// write best-effort.
func (g *Gateway) decision(r *http.Request, start time.Time, decision string, role models.Role, level zerolog.Level) *zerolog.Event {
	metrics.RecordGatewayDecision(decision, role.String())
	logger := g.log
	if id := logging.RequestIDFromContext(r.Context()); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}
	return logger.WithLevel(level).
		Str("decision", decision).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Str("role", role.String()).
		Dur("elapsed", time.Since(start))
}

func (g *Gateway) writeJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.APIResponse{Success: false, Message: message}); err != nil {
		g.log.Error().Err(err).Msg("failed to write error envelope")
	}
}
