// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

// Package config defines the portal's runtime configuration and loads it from
// layered sources with Koanf v2: struct defaults, then an optional YAML file,
// then environment variables. Precedence: ENV > file > defaults.
package config

import (
	"fmt"
	"time"

	"github.com/Vickins-Technologies1/SCR-Portal-sub004/internal/validation"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`

	// Environment selects runtime behavior (cookie Secure flags, log
	// format defaults).
	Environment string `koanf:"environment" validate:"oneof=development staging production"`

	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the portal runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// SecurityConfig holds the gateway's security policy knobs.
type SecurityConfig struct {
	CSRF      CSRFConfig      `koanf:"csrf"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`

	// CORSOrigins is the browser origin allow list. Comma-separated when
	// set via environment variable.
	CORSOrigins []string `koanf:"cors_origins"`

	// EdgeThrottle caps total request throughput per client before any
	// policy evaluation, as a cheap flood brake in front of the
	// fixed-window policy limiter.
	EdgeThrottle EdgeThrottleConfig `koanf:"edge_throttle"`
}

// CSRFConfig tunes the double-submit token guard.
type CSRFConfig struct {
	CookieName  string        `koanf:"cookie_name" validate:"required"`
	HeaderName  string        `koanf:"header_name" validate:"required"`
	TokenLength int           `koanf:"token_length" validate:"min=16,max=128"`
	TokenTTL    time.Duration `koanf:"token_ttl" validate:"min=1m"`
}

// RateLimitConfig tunes the fixed-window mutating-request limiter.
type RateLimitConfig struct {
	Window time.Duration `koanf:"window" validate:"min=1s"`
	Limit  int           `koanf:"limit" validate:"min=1"`
}

// EdgeThrottleConfig tunes the pre-auth per-IP throttle.
type EdgeThrottleConfig struct {
	Enabled bool          `koanf:"enabled"`
	Limit   int           `koanf:"limit" validate:"min=1"`
	Window  time.Duration `koanf:"window" validate:"min=1s"`
}

// LoggingConfig tunes zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			CSRF: CSRFConfig{
				CookieName:  "csrf-token",
				HeaderName:  "x-csrf-token",
				TokenLength: 32,
				TokenTTL:    time.Hour,
			},
			RateLimit: RateLimitConfig{
				Window: 15 * time.Minute,
				Limit:  100,
			},
			CORSOrigins: []string{"http://localhost:3000"},
			EdgeThrottle: EdgeThrottleConfig{
				Enabled: true,
				Limit:   600,
				Window:  time.Minute,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
