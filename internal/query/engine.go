// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package query

import (
	"slices"
	"strings"

	"github.com/tomtom215/insightops/internal/models"
)

// Result is one page of matches.
type Result struct {
	Items []models.Event
	Total int
	Page  int
	Limit int
}

// Run filters, sorts and paginates events. The input slice is not modified.
func Run(events []models.Event, spec Spec) Result {
	spec = spec.Normalize()

	matched := make([]models.Event, 0, len(events))
	for i := range events {
		if spec.Matches(&events[i]) {
			matched = append(matched, events[i])
		}
	}

	slices.SortStableFunc(matched, func(a, b models.Event) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return Result{
		Items: paginate(matched, spec.Page, spec.Limit),
		Total: len(matched),
		Page:  spec.Page,
		Limit: spec.Limit,
	}
}

// Matches reports whether e satisfies every active filter.
func (s Spec) Matches(e *models.Event) bool {
	if s.Category != "" && e.Category != s.Category {
		return false
	}
	if s.Severity != "" && e.Severity != s.Severity {
		return false
	}
	if s.MinScore != nil && !(e.Metrics.Score >= *s.MinScore) {
		return false
	}
	if s.From != nil && e.CreatedAt.Before(*s.From) {
		return false
	}
	if s.To != nil && e.CreatedAt.After(*s.To) {
		return false
	}
	if s.Search != "" && !matchesSearch(e, strings.ToLower(s.Search)) {
		return false
	}
	return true
}

// matchesSearch checks the title and each tag for term, which must be lowercase.
func matchesSearch(e *models.Event, term string) bool {
	if strings.Contains(strings.ToLower(e.Title), term) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func paginate(sorted []models.Event, page, limit int) []models.Event {
	pages := (len(sorted) + limit - 1) / limit
	if page > pages {
		return []models.Event{}
	}
	start := (page - 1) * limit
	end := min(start+limit, len(sorted))
	return sorted[start:end]
}

// GetByID returns the event with the given id or ErrNotFound.
func GetByID(events []models.Event, id string) (models.Event, error) {
	for i := range events {
		if events[i].ID == id {
			return events[i].Clone(), nil
		}
	}
	return models.Event{}, ErrNotFound
}
