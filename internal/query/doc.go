// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package query implements the event query engine behind GET /events.

The engine is a pure function of an event snapshot and a Spec. It applies the
filters (category, severity, minimum score, createdAt range, text search) as a
conjunction, orders the matches by createdAt with the newest first, and cuts
the requested page. The returned Result carries the total match count before
pagination so callers can compute the page count.

# Date Range Resolution

  - from and to present: both bounds apply, inclusive.
  - from only: to becomes 23:59:59.999 UTC of the current day as reported by
    the injected Clock, so events dated after today are excluded.
  - to only: only the upper bound applies.
  - neither: no date filtering.

A malformed from or to is reported as a *DateError wrapping ErrBadRequest.

# Pagination

Page is 1-based and never below 1. Limit is clamped into [1, 100]. A page past
the end yields an empty item list, not an error.
*/
package query
