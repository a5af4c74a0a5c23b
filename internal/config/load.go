// SCR Portal - Property Rental Management Platform
// Copyright 2026 Vickins Technologies
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vickins-Technologies1/SCR-Portal-sub004

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order. The
// first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/scrportal/config.yaml",
	"/etc/scrportal/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "SCRPORTAL_CONFIG_PATH"

// envPrefix namespaces the portal's environment variables.
const envPrefix = "SCRPORTAL_"

// envMappings translates environment variable names (sans prefix, lowercased)
// to koanf paths. Explicit mapping rather than mechanical underscore-to-dot
// translation because nested keys themselves contain underscores
// (security.rate_limit.window).
var envMappings = map[string]string{
	"server_host":             "server.host",
	"server_port":             "server.port",
	"server_environment":      "server.environment",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_idle_timeout":     "server.idle_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"csrf_cookie_name":  "security.csrf.cookie_name",
	"csrf_header_name":  "security.csrf.header_name",
	"csrf_token_length": "security.csrf.token_length",
	"csrf_token_ttl":    "security.csrf.token_ttl",

	"rate_limit_window": "security.rate_limit.window",
	"rate_limit_limit":  "security.rate_limit.limit",

	"cors_origins": "security.cors_origins",

	"edge_throttle_enabled": "security.edge_throttle.enabled",
	"edge_throttle_limit":   "security.edge_throttle.limit",
	"edge_throttle_window":  "security.edge_throttle.window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// sliceConfigPaths are paths parsed as comma-separated lists when supplied as
// strings (environment variables always arrive as strings).
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// Load builds the configuration from layered sources:
//  1. struct defaults
//  2. optional YAML config file
//  3. SCRPORTAL_* environment variables (highest priority)
//
// The result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps SCRPORTAL_RATE_LIMIT_LIMIT to security.rate_limit.limit
// and so on. Unknown variables are dropped rather than guessed at.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if path, ok := envMappings[key]; ok {
		return path
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
