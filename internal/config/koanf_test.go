// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv unsets every mapped variable and CONFIG_PATH for the test and
// runs it from an empty directory so no config.yaml is picked up.
func isolateEnv(t *testing.T) {
	t.Helper()
	keys := []string{ConfigPathEnvVar}
	for k := range envMappings {
		keys = append(keys, strings.ToUpper(k))
	}
	for _, k := range keys {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	t.Chdir(t.TempDir())
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want 4000", cfg.Server.Port)
	}
	if cfg.Security.SessionTimeout != 8*time.Hour {
		t.Errorf("SessionTimeout = %v, want 8h", cfg.Security.SessionTimeout)
	}
	if cfg.Security.RateLimitReqs != 100 || cfg.Security.RateLimitWindow != 15*time.Minute {
		t.Errorf("rate limit = %d/%v, want 100/15m", cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Storage.Backend != StorageFile || cfg.Storage.Path != "data/events.json" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if !cfg.Storage.SeedEvents || cfg.Storage.SeedCount != 200 {
		t.Errorf("seed = %v/%d, want true/200", cfg.Storage.SeedEvents, cfg.Storage.SeedCount)
	}
	if cfg.Security.JWTSecret != DevJWTSecret {
		t.Errorf("JWTSecret = %q, want dev default", cfg.Security.JWTSecret)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"ENVIRONMENT", "server.environment"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"AUTHZ_POLICY_PATH", "security.authz.policy_path"},
		{"STORAGE_BACKEND", "storage.backend"},
		{"SEED_COUNT", "storage.seed_count"},
		{"LOG_LEVEL", "logging.level"},

		// Unknown (should return empty)
		{"RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("STORAGE_BACKEND", "badger")
	t.Setenv("STORAGE_PATH", "/tmp/insightops")
	t.Setenv("SESSION_TIMEOUT", "2h")
	t.Setenv("SEED_EVENTS", "false")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if got := strings.Join(cfg.Security.CORSOrigins, "|"); got != "https://a.example.org|https://b.example.org" {
		t.Errorf("CORSOrigins = %q", got)
	}
	if cfg.Storage.Backend != StorageBadger || cfg.Storage.Path != "/tmp/insightops" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Security.SessionTimeout != 2*time.Hour {
		t.Errorf("SessionTimeout = %v, want 2h", cfg.Security.SessionTimeout)
	}
	if cfg.Storage.SeedEvents {
		t.Error("SeedEvents should be false")
	}

	// defaults still apply for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override config file
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	isolateEnv(t)

	configContent := `
server:
  port: 8888
  host: "127.0.0.1"

security:
  cors_origins: ["https://dash.example.org"]

logging:
  level: "warn"
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("PORT", "9999")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1 (from file)", cfg.Server.Host)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (from file)", cfg.Logging.Level)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://dash.example.org" {
		t.Errorf("CORSOrigins = %v (from file)", cfg.Security.CORSOrigins)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env override)", cfg.Server.Port)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{"bad port", map[string]string{"PORT": "70000"}, "PORT"},
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "s3"}, "STORAGE_BACKEND"},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
		{"production dev secret", map[string]string{"ENVIRONMENT": "production", "CORS_ORIGINS": "https://x.org"}, "JWT_SECRET"},
		{"production wildcard cors", map[string]string{
			"ENVIRONMENT": "production",
			"JWT_SECRET":  "k3c9Lw0pQz7vR2sYt8uXn4bHm6jDf1aE",
		}, "CORS_ORIGINS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q should mention %s", err, tt.errMsg)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	isolateEnv(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty", got)
	}

	if err := os.WriteFile("config.yml", []byte("server:\n  port: 5000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() = %q, want config.yml", got)
	}

	t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("missing CONFIG_PATH should fall back, got %q", got)
	}
}
