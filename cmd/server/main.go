// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Command server runs the SCR Portal gateway: a supervised HTTP server that
// classifies, authenticates, and authorizes every request to the portal's
// routes before it reaches a handler.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/api"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/config"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/csrf"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/gateway"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/logging"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/ratelimit"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/routes"
	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Msg("starting scr-portal")

	table, err := routes.NewTable(routes.DefaultRules())
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid access-control table")
	}

	guard := csrf.NewGuard(csrf.Config{
		CookieName:   cfg.Security.CSRF.CookieName,
		HeaderName:   cfg.Security.CSRF.HeaderName,
		TokenLength:  cfg.Security.CSRF.TokenLength,
		TokenTTL:     cfg.Security.CSRF.TokenTTL,
		CookieSecure: cfg.Server.IsProduction(),
	})
	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Window: cfg.Security.RateLimit.Window,
		Limit:  cfg.Security.RateLimit.Limit,
	})
	gw := gateway.New(table, guard, limiter)
	handler := api.NewHandler(cfg.Server.IsProduction())
	router := api.NewRouter(cfg, gw, guard, handler)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor exited with error")
		os.Exit(1)
	}
	logging.Info().Msg("scr-portal stopped")
}
