// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Event store mutations and snapshot writes
// - Event list queries
// - Login attempts and authorization denials
// - Change feed and WebSocket delivery

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Event Store Metrics
	StoreEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_events",
			Help: "Number of events currently held by the store",
		},
	)

	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_mutations_total",
			Help: "Total number of store mutations by operation and result",
		},
		[]string{"operation", "result"},
	)

	SnapshotWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_snapshot_write_duration_seconds",
			Help:    "Duration of full snapshot writes to durable storage",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"backend"},
	)

	SnapshotWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_snapshot_write_errors_total",
			Help: "Total number of failed snapshot writes",
		},
		[]string{"backend"},
	)

	// Query Engine Metrics
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "query_duration_seconds",
			Help:    "Event list query evaluation time",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	QueryMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "query_matches",
			Help:    "Number of events matched by list queries before pagination",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	QueryBadRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_bad_requests_total",
			Help: "Total number of rejected list queries by parameter",
		},
		[]string{"param"},
	)

	// Access Guard Metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of rejected credentials by reason",
		},
		[]string{"reason"},
	)

	AuthzDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denials_total",
			Help: "Total number of requests rejected for insufficient role",
		},
		[]string{"object", "action", "role"},
	)

	// Change Feed Metrics
	ChangeNotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changefeed_published_total",
			Help: "Total number of change notifications published",
		},
		[]string{"type"},
	)

	ChangeNotificationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "changefeed_errors_total",
			Help: "Total number of change feed failures by stage",
		},
		[]string{"stage"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreMutation records the outcome of an insert, update or delete.
func RecordStoreMutation(operation string, err error) {
	StoreMutations.WithLabelValues(operation, resultLabel(err)).Inc()
}

// RecordSnapshotWrite records a durable snapshot write.
func RecordSnapshotWrite(backend string, duration time.Duration, err error) {
	SnapshotWriteDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		SnapshotWriteErrors.WithLabelValues(backend).Inc()
	}
}

// RecordQuery records a list query evaluation.
func RecordQuery(duration time.Duration, matches int) {
	QueryDuration.Observe(duration.Seconds())
	QueryMatches.Observe(float64(matches))
}

// RecordLoginAttempt records a login outcome: success, invalid, throttled.
func RecordLoginAttempt(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

// RecordChangeNotification records a published change notification.
func RecordChangeNotification(changeType string, err error) {
	if err != nil {
		ChangeNotificationErrors.WithLabelValues("publish").Inc()
		return
	}
	ChangeNotificationsPublished.WithLabelValues(changeType).Inc()
}

// StatusLabel formats an HTTP status code for the status_code label.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
