// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package metrics provides Prometheus collectors for the InsightOps service.

All collectors are registered with the default registry through promauto and
are exposed by the API at /metrics:

	curl http://localhost:4000/metrics

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Event store:
  - store_events
  - store_mutations_total{operation, result}
  - store_snapshot_write_duration_seconds{backend}
  - store_snapshot_write_errors_total{backend}

Query engine:
  - query_duration_seconds
  - query_matches
  - query_bad_requests_total{param}

Access guard:
  - auth_login_attempts_total{result}
  - auth_failures_total{reason}
  - authz_denials_total{object, action, role}

Change feed:
  - changefeed_published_total{type}
  - changefeed_errors_total{stage}
  - websocket_connections
  - websocket_messages_sent_total
  - websocket_errors_total{error_type}

The endpoint label is the chi route pattern ("/events/{id}"), never the raw
path, so label cardinality stays bounded.
*/
package metrics
