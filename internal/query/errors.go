// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package query

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrBadRequest indicates a malformed query parameter.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound indicates no event has the requested id.
	ErrNotFound = errors.New("event not found")
)

// DateError reports a from or to parameter that is not a recognised date.
type DateError struct {
	Param string
	Value string
}

// Error returns the client-facing message, e.g. "Invalid from date format".
func (e *DateError) Error() string {
	return fmt.Sprintf("Invalid %s date format", e.Param)
}

// Unwrap lets errors.Is match ErrBadRequest.
func (e *DateError) Unwrap() error {
	return ErrBadRequest
}
