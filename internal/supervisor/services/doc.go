// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package services provides suture.Service wrappers for InsightOps components
whose lifecycle is not already Serve(ctx) error.

HTTPServerService:
  - wraps *http.Server, translating ListenAndServe to Serve
  - on cancellation calls Shutdown with a bounded timeout (default 10s)
  - http.ErrServerClosed is not treated as a failure

BadgerGCService:
  - runs value-log garbage collection on the badger snapshot backend
    at a fixed interval
  - a failed pass is logged and retried on the next tick, it never
    restarts the service

Components that already implement Serve (websocket.Hub,
changefeed.Forwarder, auth.LoginLimiter) are added to the tree directly.
*/
package services
