// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package api provides the HTTP surface of InsightOps.

Routes (all JSON):

	GET    /                     health, no auth
	GET    /metrics              Prometheus, no auth
	POST   /auth/login           issue a bearer token
	GET    /events               filtered, sorted, paginated list (all roles)
	GET    /events/{id}          single event (all roles)
	POST   /events               create (admin, analyst)
	PUT    /events/{id}          partial update (admin, analyst)
	DELETE /events/{id}          delete (admin)
	GET    /events/stream        websocket change feed (all roles)
	GET    /users                list principals (admin)
	PUT    /users/{email}/role   change a principal's role (admin)

Every route except health, metrics and login runs behind
auth.Authenticator followed by authz.Enforcer.Require for the operation.
Error bodies are always {"error": string} with an optional "details" array;
writeError is the single place that maps errors to status codes.
*/
package api
