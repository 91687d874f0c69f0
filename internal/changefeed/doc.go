// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

// Package changefeed carries store mutations to live dashboards.
//
// The store publishes a models.ChangeNotification on the in-process watermill
// topic "events.changed" after every successful durable write. The Forwarder
// consumes the topic through a watermill router and hands each notification
// to a Broadcaster (the websocket hub).
//
// Delivery is best effort. A notification that cannot be decoded or
// broadcast is logged, counted and acknowledged; it is never redelivered and
// never fails the mutation that produced it.
package changefeed
