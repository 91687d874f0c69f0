// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package main is the entry point for the InsightOps backend.

InsightOps serves a list of operational events (fraud, ops, safety, sales
and health incidents) to a dashboard. Every route except health, metrics
and login requires a bearer token, and each operation is gated by role:

	viewer   read events
	analyst  read and create events, update them
	admin    everything, including deletes and user role management

# Application Architecture

	RootSupervisor ("insightops")
	├── DataSupervisor ("data-layer")
	│   ├── changefeed-forwarder (watermill gochannel -> websocket hub)
	│   └── badger-gc (STORAGE_BACKEND=badger only)
	├── MessagingSupervisor ("messaging-layer")
	│   └── websocket-hub
	└── APISupervisor ("api-layer")
	    ├── http-server
	    └── login-limiter (stale entry cleanup)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config.yaml and environment
 2. Logging: zerolog with JSON/console output modes
 3. Storage: JSON file or BadgerDB snapshot, seeded when empty
 4. Change feed: watermill gochannel publisher attached to the store
 5. Authentication: bcrypt user directory and HS256 JWT
 6. Authorization: casbin model and policy (embedded or from disk)
 7. HTTP: Chi router with CORS, httprate, metrics and access logging
 8. Supervisor tree: Suture v4

# Configuration

	PORT=4000                    # HTTP listen port
	JWT_SECRET=<secret>          # devsecret is rejected in production
	STORAGE_BACKEND=file         # file or badger
	STORAGE_PATH=data/events.json
	LOG_LEVEL=info
	LOG_FORMAT=json

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10s, websocket clients receive a close frame, and the snapshot backend
is closed after the tree stops.

# Example Usage

	export JWT_SECRET=$(openssl rand -base64 32)
	export STORAGE_BACKEND=badger STORAGE_PATH=/var/lib/insightops
	./insightops

	curl -s localhost:4000/auth/login \
	  -d '{"email":"admin@test.com","password":"password"}'
*/
package main
