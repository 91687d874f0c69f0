// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package models

import "time"

// EventListResponse is the body of GET /events.
type EventListResponse struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string           `json:"error"`
	Details []FieldViolation `json:"details,omitempty"`
}

// FieldViolation describes one rejected input field.
// Field is the dotted JSON path, e.g. "metrics.score".
type FieldViolation struct {
	Field   string `json:"field"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserView is the public projection of a principal.
type UserView struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// HealthResponse is the body of GET /.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ChangeType names the kind of store mutation in a ChangeNotification.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeNotification announces a completed store mutation to live clients.
// Event is nil for deletions.
type ChangeNotification struct {
	ID      string     `json:"id"`
	Type    ChangeType `json:"type"`
	EventID string     `json:"eventId"`
	Event   *Event     `json:"event,omitempty"`
	At      time.Time  `json:"at"`
}
