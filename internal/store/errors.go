// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package store

import (
	"errors"

	"github.com/tomtom215/insightops/internal/query"
)

// Sentinel errors
var (
	// ErrNotFound is returned when no event has the requested id.
	ErrNotFound = query.ErrNotFound

	// ErrDuplicateID is returned by Insert when the id is already taken.
	ErrDuplicateID = errors.New("duplicate event id")

	// ErrPersist wraps a failed durable write.
	ErrPersist = errors.New("persist event snapshot")
)
