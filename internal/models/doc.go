// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package models defines the data structures shared across InsightOps.

Key Components:

  - Event: the tracked incident record (category, severity, location, metrics, tags)
  - Category, Severity: closed enumerations for Event classification
  - EventPatch: partial update applied by the event store
  - API payloads: list, login, user and error response bodies

The Event record is a pure data contract. Validation of external input happens in
internal/validation before any value reaches the store, and ordering for
presentation is always computed by internal/query.
*/
package models
