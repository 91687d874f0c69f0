// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package logging provides the process-wide structured logger.

The logger is a zerolog instance configured once from main via Init and read
through package-level helpers (Info, Warn, Error, Debug). Request-scoped code
should prefer Ctx, which attaches the request and correlation IDs stored in the
context by the HTTP middleware:

	logging.Ctx(r.Context()).Info().Str("event_id", id).Msg("event updated")

Libraries that expect a *slog.Logger (suture, watermill) are bridged through
NewSlogLogger, so every line reaches the same zerolog sink.

Authentication outcomes are recorded through AuthLogger, which never writes
raw tokens or full email addresses.
*/
package logging
