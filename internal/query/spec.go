// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/insightops/internal/models"
)

// Pagination bounds
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// maxPage keeps page arithmetic well inside int range.
	maxPage = math.MaxInt32
)

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Spec is a parsed list request. Zero-valued filter fields are inactive.
type Spec struct {
	Category models.Category
	Severity models.Severity
	MinScore *float64
	From     *time.Time
	To       *time.Time
	Search   string
	Page     int
	Limit    int
}

// ParseSpec reads the list parameters from a query string. Empty parameters
// count as absent. The clock is consulted only for a from-only range.
func ParseSpec(values url.Values, clock Clock) (Spec, error) {
	spec := Spec{
		Category: models.Category(values.Get("category")),
		Severity: models.Severity(values.Get("severity")),
		Search:   values.Get("search"),
		Page:     parseCount(values.Get("page"), DefaultPage),
		Limit:    parseCount(values.Get("limit"), DefaultLimit),
	}

	if raw := strings.TrimSpace(values.Get("minScore")); raw != "" {
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Unparseable bound: no score compares >= NaN.
			score = math.NaN()
		}
		spec.MinScore = &score
	}

	from, to := values.Get("from"), values.Get("to")
	if from != "" {
		t, err := ParseDate(from)
		if err != nil {
			return Spec{}, &DateError{Param: "from", Value: from}
		}
		spec.From = &t

		if to == "" {
			end := EndOfDayUTC(clock.Now())
			spec.To = &end
		}
	}
	if to != "" {
		t, err := ParseDate(to)
		if err != nil {
			return Spec{}, &DateError{Param: "to", Value: to}
		}
		spec.To = &t
	}

	return spec.Normalize(), nil
}

// ParseDate parses an ISO-8601 date or timestamp.
func ParseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// parseCount reads a page or limit value. Fractions are truncated and
// anything non-numeric falls back to def.
func parseCount(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return def
	}
	f = math.Trunc(f)
	switch {
	case f > maxPage:
		return maxPage
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

// Normalize clamps Page to at least 1 and Limit into [1, MaxLimit].
func (s Spec) Normalize() Spec {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.Page > maxPage {
		s.Page = maxPage
	}
	s.Limit = min(max(s.Limit, 1), MaxLimit)
	return s
}
