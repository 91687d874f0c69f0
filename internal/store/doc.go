// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

// Package store owns the authoritative event sequence.
//
// EventStore keeps the events in memory behind a single mutex. Every
// successful insert, update or delete rewrites the full sequence through a
// Snapshotter before the call returns; the in-memory sequence only advances
// once that write has succeeded. A failed write is logged and reported as
// ErrPersist and is never retried.
//
// Two snapshot backends are provided:
//
//   - FileSnapshotter: one JSON document, replaced atomically via rename
//   - BadgerSnapshotter: one key in a BadgerDB database
//
// At startup Open loads the prior snapshot, or builds the initial sequence
// with a seed function and writes it immediately.
package store
