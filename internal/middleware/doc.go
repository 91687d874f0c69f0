// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package middleware provides HTTP instrumentation shared by every route.

  - PrometheusMetrics: request count, latency and in-flight gauge, labelled by
    the chi route pattern so /events/{id} stays one series
  - AccessLog: one structured zerolog line per request carrying the request
    and correlation IDs

Both are chi-style func(http.Handler) http.Handler and are installed by
internal/api:

	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)
*/
package middleware
