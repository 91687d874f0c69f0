// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package api

import (
	"time"

	"github.com/tomtom215/insightops/internal/models"
)

// Request bodies validated with go-playground/validator. Numeric fields are
// pointers so an omitted value fails "required" while an explicit 0 passes.

// LocationInput is the location object of an event body.
type LocationInput struct {
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
}

func (in *LocationInput) toModel() models.Location {
	return models.Location{Lat: *in.Lat, Lng: *in.Lng}
}

// MetricsInput is the metrics object of an event body.
type MetricsInput struct {
	Score      *float64 `json:"score" validate:"required,gte=0,lte=100"`
	Confidence *float64 `json:"confidence" validate:"required,gte=0,lte=1"`
	Impact     *float64 `json:"impact" validate:"required,gte=0,lte=10"`
}

func (in *MetricsInput) toModel() models.Metrics {
	return models.Metrics{Score: *in.Score, Confidence: *in.Confidence, Impact: *in.Impact}
}

// EventCreateRequest is the body of POST /events. id and createdAt are
// assigned by the server and ignored if present.
type EventCreateRequest struct {
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description" validate:"required"`
	Category    string         `json:"category" validate:"required,event_category"`
	Severity    string         `json:"severity" validate:"required,event_severity"`
	Location    *LocationInput `json:"location" validate:"required"`
	Metrics     *MetricsInput  `json:"metrics" validate:"required"`
	Tags        []string       `json:"tags" validate:"required"`
}

// ToEvent builds the stored event. Call only after validation passed.
func (req *EventCreateRequest) ToEvent(id string, createdAt time.Time) models.Event {
	tags := make([]string, len(req.Tags))
	copy(tags, req.Tags)
	return models.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Category:    models.Category(req.Category),
		Severity:    models.Severity(req.Severity),
		CreatedAt:   createdAt.UTC(),
		Location:    req.Location.toModel(),
		Metrics:     req.Metrics.toModel(),
		Tags:        tags,
	}
}

// EventUpdateRequest is the body of PUT /events/{id}. Every field is
// optional; a supplied location or metrics object must be complete.
type EventUpdateRequest struct {
	Title       *string        `json:"title" validate:"omitempty,min=1"`
	Description *string        `json:"description" validate:"omitempty,min=1"`
	Category    *string        `json:"category" validate:"omitempty,event_category"`
	Severity    *string        `json:"severity" validate:"omitempty,event_severity"`
	Location    *LocationInput `json:"location" validate:"omitempty"`
	Metrics     *MetricsInput  `json:"metrics" validate:"omitempty"`
	Tags        []string       `json:"tags"`
}

// ToPatch converts the request to a store patch.
func (req *EventUpdateRequest) ToPatch() models.EventPatch {
	patch := models.EventPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Category != nil {
		c := models.Category(*req.Category)
		patch.Category = &c
	}
	if req.Severity != nil {
		s := models.Severity(*req.Severity)
		patch.Severity = &s
	}
	if req.Location != nil {
		loc := req.Location.toModel()
		patch.Location = &loc
	}
	if req.Metrics != nil {
		m := req.Metrics.toModel()
		patch.Metrics = &m
	}
	if req.Tags != nil {
		patch.Tags = make([]string, len(req.Tags))
		copy(patch.Tags, req.Tags)
	}
	return patch
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RoleUpdateRequest is the body of PUT /users/{email}/role.
type RoleUpdateRequest struct {
	Role string `json:"role" validate:"required,role"`
}
