// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package config loads and validates InsightOps configuration.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. Only the environment variables listed
in envMappings are read; everything else in the environment is ignored.

# Example config.yaml

	server:
	  port: 4000
	  environment: production
	security:
	  jwt_secret: "<at least 32 random characters>"
	  cors_origins: ["https://dashboard.example.org"]
	storage:
	  backend: badger
	  path: /var/lib/insightops

# Production Checks

With ENVIRONMENT=production, Validate refuses the development JWT secret,
secrets shorter than 32 characters, placeholder values and wildcard CORS.
*/
package config
