// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package query

import (
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/tomtom215/insightops/internal/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func mkEvent(id string, createdAt time.Time, cat models.Category, sev models.Severity, score float64, title string, tags ...string) models.Event {
	if tags == nil {
		tags = []string{}
	}
	return models.Event{
		ID:          id,
		Title:       title,
		Description: "desc " + id,
		Category:    cat,
		Severity:    sev,
		CreatedAt:   createdAt,
		Location:    models.Location{Lat: 19.07, Lng: 72.87},
		Metrics:     models.Metrics{Score: score, Confidence: 0.5, Impact: 5},
		Tags:        tags,
	}
}

func fixture() []models.Event {
	day := 24 * time.Hour
	return []models.Event{
		mkEvent("e1", testNow.Add(-2*day), models.CategoryFraud, models.SeverityHigh, 90, "Fraud Alert in Mumbai", "priority"),
		mkEvent("e2", testNow.Add(-1*day), models.CategoryOps, models.SeverityLow, 20, "Ops Alert in Delhi", "fraud-signal"),
		mkEvent("e3", testNow.Add(-3*time.Hour), models.CategorySafety, models.SeverityMedium, 55, "Safety Alert in Pune"),
		mkEvent("e4", testNow.Add(1*day), models.CategorySales, models.SeverityHigh, 70, "Sales Alert in Chennai", "anomaly"),
		mkEvent("e5", testNow.Add(-10*day), models.CategoryFraud, models.SeverityLow, 40, "Fraud Alert in Kolkata"),
		mkEvent("e6", testNow.Add(-5*day), models.CategoryHealth, models.SeverityHigh, 100, "Health Alert in Hyderabad", "FRAUD"),
	}
}

func ids(events []models.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func parse(t *testing.T, raw string) Spec {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", raw, err)
	}
	spec, err := ParseSpec(values, FixedClock{T: testNow})
	if err != nil {
		t.Fatalf("ParseSpec(%q): %v", raw, err)
	}
	return spec
}

// ===================================================================================================
// Filter Tests
// ===================================================================================================

func TestRun_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters newest first", "", []string{"e4", "e3", "e2", "e1", "e6", "e5"}},
		{"category", "category=Fraud", []string{"e1", "e5"}},
		{"severity", "severity=High", []string{"e4", "e1", "e6"}},
		{"unknown category matches nothing", "category=fraud", []string{}},
		{"min score inclusive", "minScore=55", []string{"e4", "e3", "e1", "e6"}},
		{"min score non-numeric", "minScore=abc", []string{}},
		{"search title and tags case-insensitive", "search=fraud", []string{"e2", "e1", "e6", "e5"}},
		{"search upper-case term", "search=MUMBAI", []string{"e1"}},
		{"combined", "category=Fraud&severity=High&minScore=50", []string{"e1"}},
		{"from only excludes future", "from=2025-06-14", []string{"e3", "e2"}},
		{"to only inclusive", "to=2025-06-10T12:00:00Z", []string{"e6", "e5"}},
		{"from and to inclusive", "from=2025-06-13T12:00:00Z&to=2025-06-14T12:00:00Z", []string{"e2", "e1"}},
		{"from with explicit future to", "from=2025-06-14&to=2025-06-30", []string{"e4", "e3", "e2"}},
		{"empty params are absent", "category=&severity=&minScore=&from=&to=&search=", []string{"e4", "e3", "e2", "e1", "e6", "e5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Run(fixture(), parse(t, tt.query))
			got := ids(res.Items)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Run(%q) = %v, want %v", tt.query, got, tt.want)
			}
			if res.Total != len(tt.want) {
				t.Errorf("Total = %d, want %d", res.Total, len(tt.want))
			}
		})
	}
}

func TestRun_FromOnlyYesterday(t *testing.T) {
	yesterday := testNow.Add(-24 * time.Hour)
	dayStart := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)
	events := []models.Event{
		mkEvent("before", dayStart.Add(-time.Millisecond), models.CategoryOps, models.SeverityLow, 1, "a"),
		mkEvent("start", dayStart, models.CategoryOps, models.SeverityLow, 1, "b"),
		mkEvent("today-late", EndOfDayUTC(testNow), models.CategoryOps, models.SeverityLow, 1, "c"),
		mkEvent("tomorrow", EndOfDayUTC(testNow).Add(time.Millisecond), models.CategoryOps, models.SeverityLow, 1, "d"),
	}

	res := Run(events, parse(t, "from="+dayStart.Format("2006-01-02")))
	if got := fmt.Sprint(ids(res.Items)); got != "[today-late start]" {
		t.Errorf("from=yesterday = %s, want [today-late start]", got)
	}
}

// ===================================================================================================
// Sort and Pagination Tests
// ===================================================================================================

func TestRun_PaginationConcatenatesToFullSequence(t *testing.T) {
	var events []models.Event
	base := testNow.Add(-100 * time.Hour)
	for i := range 23 {
		// duplicate timestamps exercise the stable sort
		events = append(events, mkEvent(fmt.Sprintf("e%02d", i), base.Add(time.Duration(i/2)*time.Hour),
			models.CategoryOps, models.SeverityLow, float64(i), "t"))
	}

	full := Run(events, Spec{Page: 1, Limit: MaxLimit})
	for i := 1; i < len(full.Items); i++ {
		if full.Items[i-1].CreatedAt.Before(full.Items[i].CreatedAt) {
			t.Fatalf("items %d and %d out of order", i-1, i)
		}
	}

	for _, limit := range []int{1, 4, 7, 23, 50} {
		var concat []string
		pages := (full.Total + limit - 1) / limit
		for page := 1; page <= pages; page++ {
			res := Run(events, Spec{Page: page, Limit: limit})
			if res.Total != 23 {
				t.Fatalf("limit=%d page=%d Total = %d, want 23", limit, page, res.Total)
			}
			concat = append(concat, ids(res.Items)...)
		}
		if fmt.Sprint(concat) != fmt.Sprint(ids(full.Items)) {
			t.Errorf("limit=%d concatenated pages = %v, want %v", limit, concat, ids(full.Items))
		}
	}
}

func TestRun_PageBeyondEnd(t *testing.T) {
	res := Run(fixture(), Spec{Page: 4, Limit: 2})
	if len(res.Items) != 0 || res.Items == nil {
		t.Errorf("Items = %v, want empty non-nil slice", res.Items)
	}
	if res.Total != 6 {
		t.Errorf("Total = %d, want 6", res.Total)
	}

	huge := Run(fixture(), parse(t, "page=99999999999999999999"))
	if len(huge.Items) != 0 {
		t.Errorf("huge page returned %d items", len(huge.Items))
	}
}

func TestParseSpec_PageAndLimit(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"page=2&limit=5", 2, 5},
		{"limit=500", 1, 100},
		{"limit=0", 1, 1},
		{"limit=-3", 1, 1},
		{"page=0", 1, 10},
		{"page=-7", 1, 10},
		{"page=abc&limit=xyz", 1, 10},
		{"page=2.9&limit=5.5", 2, 5},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			spec := parse(t, tt.query)
			if spec.Page != tt.wantPage || spec.Limit != tt.wantLimit {
				t.Errorf("page,limit = %d,%d want %d,%d", spec.Page, spec.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestRun_ClampsProgrammaticSpec(t *testing.T) {
	res := Run(fixture(), Spec{Page: -1, Limit: 1000})
	if res.Page != 1 || res.Limit != 100 {
		t.Errorf("page,limit = %d,%d want 1,100", res.Page, res.Limit)
	}
}

// ===================================================================================================
// Date Parsing Tests
// ===================================================================================================

func TestParseSpec_MalformedDates(t *testing.T) {
	tests := []struct {
		query   string
		param   string
		message string
	}{
		{"from=not-a-date", "from", "Invalid from date format"},
		{"from=2025-06-01&to=garbage", "to", "Invalid to date format"},
		{"to=2025-13-01", "to", "Invalid to date format"},
		{"from=2025-06-14T25:00Z", "from", "Invalid from date format"},
		{"from=2025-06-14T10Z", "from", "Invalid from date format"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			_, err := ParseSpec(values, FixedClock{T: testNow})
			if !errors.Is(err, ErrBadRequest) {
				t.Fatalf("err = %v, want ErrBadRequest", err)
			}
			var de *DateError
			if !errors.As(err, &de) || de.Param != tt.param {
				t.Fatalf("err = %#v, want DateError for %s", err, tt.param)
			}
			if err.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.message)
			}
		})
	}
}

func TestParseSpec_MinutePrecisionFrom(t *testing.T) {
	values, _ := url.ParseQuery("from=2025-06-14T10:00Z")
	spec, err := ParseSpec(values, FixedClock{T: testNow})
	if err != nil {
		t.Fatalf("ParseSpec() error = %v", err)
	}
	wantFrom := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	if spec.From == nil || !spec.From.Equal(wantFrom) {
		t.Errorf("From = %v, want %v", spec.From, wantFrom)
	}
	wantTo := time.Date(2025, 6, 15, 23, 59, 59, 999e6, time.UTC)
	if spec.To == nil || !spec.To.Equal(wantTo) {
		t.Errorf("To = %v, want %v", spec.To, wantTo)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-15", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-06-15T08:30:00Z", time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)},
		{"2025-06-15T08:30:00.250Z", time.Date(2025, 6, 15, 8, 30, 0, 250e6, time.UTC)},
		{"2025-06-15T10:30:00+02:00", time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)},
		{"2025-06-15T08:30:00", time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)},
		{"2025-06-14T10:00Z", time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)},
		{"2025-06-14T12:00+02:00", time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)},
		{"2025-06-14T10:00", time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEndOfDayUTC(t *testing.T) {
	in := time.Date(2025, 6, 15, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	want := time.Date(2025, 6, 16, 23, 59, 59, 999e6, time.UTC)
	if got := EndOfDayUTC(in); !got.Equal(want) {
		t.Errorf("EndOfDayUTC = %v, want %v", got, want)
	}
}

// ===================================================================================================
// GetByID Tests
// ===================================================================================================

func TestGetByID(t *testing.T) {
	events := fixture()

	got, err := GetByID(events, "e3")
	if err != nil || got.ID != "e3" {
		t.Fatalf("GetByID(e3) = %v, %v", got.ID, err)
	}

	if _, err := GetByID(events, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) err = %v, want ErrNotFound", err)
	}
}

func TestRun_DoesNotReorderInput(t *testing.T) {
	events := fixture()
	before := fmt.Sprint(ids(events))
	Run(events, Spec{})
	if after := fmt.Sprint(ids(events)); after != before {
		t.Errorf("input reordered: %s -> %s", before, after)
	}
}
