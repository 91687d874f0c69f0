// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

// Package validation validates external input with go-playground/validator v10.
//
// A single validator instance is shared by the process. Field names in error
// reports use the JSON names of the validated struct, joined into dotted paths
// ("location.lat", "metrics.score") so clients can map a violation back to the
// request body.
//
// Custom tags:
//   - event_category: value is a models.Category
//   - event_severity: value is a models.Severity
//   - role:           value is a models.Role
//
// # Quick Start
//
//	type CreateEventRequest struct {
//	    Title    string `json:"title" validate:"required"`
//	    Category string `json:"category" validate:"required,event_category"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    writeError(w, r, verr)
//	    return
//	}
//
// A *RequestValidationError always carries at least one violation and never
// implies that any part of the input was applied.
package validation
