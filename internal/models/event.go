// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package models

import (
	"slices"
	"time"
)

// Category classifies an Event.
type Category string

const (
	CategoryFraud  Category = "Fraud"
	CategoryOps    Category = "Ops"
	CategorySafety Category = "Safety"
	CategorySales  Category = "Sales"
	CategoryHealth Category = "Health"
)

// Categories lists every valid Category in declaration order.
var Categories = []Category{CategoryFraud, CategoryOps, CategorySafety, CategorySales, CategoryHealth}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Severity grades an Event.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Severities lists every valid Severity in declaration order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return slices.Contains(Severities, s)
}

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Metrics holds the scored measurements attached to an Event.
//
// Ranges: Score [0,100], Confidence [0,1], Impact [0,10].
type Metrics struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Impact     float64 `json:"impact"`
}

// Event is a single recorded incident or observation.
//
// ID and CreatedAt are assigned by the server at creation and never change
// afterwards. Tags may be empty; duplicates are tolerated.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Severity    Severity  `json:"severity"`
	CreatedAt   time.Time `json:"createdAt"`
	Location    Location  `json:"location"`
	Metrics     Metrics   `json:"metrics"`
	Tags        []string  `json:"tags"`
}

// Clone returns a deep copy so callers never share the Tags backing array.
func (e Event) Clone() Event {
	out := e
	if e.Tags != nil {
		out.Tags = make([]string, len(e.Tags))
		copy(out.Tags, e.Tags)
	}
	return out
}

// EventPatch carries the caller-supplied fields of a partial update.
// A nil field is left untouched. ID and CreatedAt are deliberately absent.
type EventPatch struct {
	Title       *string
	Description *string
	Category    *Category
	Severity    *Severity
	Location    *Location
	Metrics     *Metrics
	Tags        []string
}

// Empty reports whether the patch would change nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Severity == nil && p.Location == nil && p.Metrics == nil && p.Tags == nil
}

// Apply merges the patch into e and returns the result. e is not modified.
func (p EventPatch) Apply(e Event) Event {
	out := e.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Severity != nil {
		out.Severity = *p.Severity
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Metrics != nil {
		out.Metrics = *p.Metrics
	}
	if p.Tags != nil {
		out.Tags = make([]string, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	return out
}
