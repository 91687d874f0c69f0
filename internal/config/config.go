// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package config

import "time"

// DevJWTSecret is the signing secret used when JWT_SECRET is unset.
// Validate rejects it when ENVIRONMENT=production.
const DevJWTSecret = "devsecret"

// Storage backends
const (
	StorageFile   = "file"
	StorageBadger = "badger"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: CONFIG_PATH, or the first of DefaultConfigPaths that exists
//  3. Environment Variables: explicitly mapped names, see envTransformFunc
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Storage  StorageConfig  `koanf:"storage"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// SecurityConfig holds authentication, authorization and edge protection settings.
//
// Environment Variables:
//   - JWT_SECRET: HS256 signing secret (default: devsecret, rejected in production)
//   - SESSION_TIMEOUT: token lifetime (default: 8h)
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: per-IP budget (default: 100 per 15m)
//   - DISABLE_RATE_LIMIT: turn the global limiter off (default: false)
//   - CORS_ORIGINS: comma-separated origins (default: *)
//   - LOGIN_RATE_LIMIT / LOGIN_RATE_BURST: login attempts per minute per client (default: 10, burst 5)
//   - AUTHZ_MODEL_PATH / AUTHZ_POLICY_PATH: casbin overrides (default: embedded)
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	LoginRateLimit    int           `koanf:"login_rate_limit"`
	LoginRateBurst    int           `koanf:"login_rate_burst"`
	Authz             AuthzConfig   `koanf:"authz"`
}

// AuthzConfig points casbin at model and policy files. Empty paths use the
// embedded defaults.
type AuthzConfig struct {
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

// StorageConfig selects the durable snapshot backend.
//
// Environment Variables:
//   - STORAGE_BACKEND: file or badger (default: file)
//   - STORAGE_PATH: JSON file for file, directory for badger (default: data/events.json)
//   - STORAGE_SYNC_WRITES: fsync badger writes (default: true)
//   - SEED_EVENTS: generate events when no snapshot exists (default: true)
//   - SEED_COUNT: number of generated events (default: 200)
type StorageConfig struct {
	Backend    string `koanf:"backend"`
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`
	SeedEvents bool   `koanf:"seed_events"`
	SeedCount  int    `koanf:"seed_count"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all sources and validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
