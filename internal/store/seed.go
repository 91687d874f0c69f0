// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package store

import (
	"math"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/insightops/internal/models"
	"github.com/tomtom215/insightops/internal/query"
)

// DefaultSeedCount is the number of events generated for an empty store.
const DefaultSeedCount = 200

type seedCity struct {
	name     string
	lat, lng float64
}

var seedCities = []seedCity{
	{"Mumbai", 19.076, 72.8777},
	{"Delhi", 28.7041, 77.1025},
	{"Bangalore", 12.9716, 77.5946},
	{"Chennai", 13.0827, 80.2707},
	{"Hyderabad", 17.385, 78.4867},
	{"Pune", 18.5204, 73.8567},
	{"Ahmedabad", 23.0225, 72.5714},
	{"Kolkata", 22.5726, 88.3639},
}

var seedTags = []string{
	"credit-card", "high-rate", "suspicious", "login-fail",
	"network-error", "anomaly", "large-transaction", "policy-violation",
}

// seedHistory is how far back seeded createdAt values reach.
const seedHistory = 90 * 24 * time.Hour

// GenerateSeed builds n plausible events dated within the 90 days before
// clock.Now(). The output depends only on rng and clock.
func GenerateSeed(rng *rand.Rand, clock query.Clock, n int) []models.Event {
	now := clock.Now().UTC()
	events := make([]models.Event, 0, n)

	for range n {
		category := pickCategory(rng.Float64())
		severity := pickSeverity(rng.Float64())
		city := seedCities[rng.Intn(len(seedCities))]

		// drawing from rng keeps ids reproducible for a given seed
		id := uuid.Must(uuid.NewRandomFromReader(rng))

		events = append(events, models.Event{
			ID:          id.String(),
			Title:       string(category) + " Alert in " + city.name,
			Description: "Detected potential " + string(category) + " issue with severity " + string(severity) + ".",
			Category:    category,
			Severity:    severity,
			CreatedAt:   now.Add(-time.Duration(rng.Int63n(int64(seedHistory)))).Truncate(time.Millisecond),
			Location: models.Location{
				Lat: city.lat + (rng.Float64()-0.5)*0.1,
				Lng: city.lng + (rng.Float64()-0.5)*0.1,
			},
			Metrics: models.Metrics{
				Score:      float64(rng.Intn(101)),
				Confidence: math.Round((rng.Float64()*0.9+0.1)*100) / 100,
				Impact:     float64(rng.Intn(11)),
			},
			Tags: pickTags(rng),
		})
	}

	return events
}

// SeedFuncFor adapts GenerateSeed to Open.
func SeedFuncFor(rng *rand.Rand, clock query.Clock, n int) SeedFunc {
	return func() []models.Event {
		return GenerateSeed(rng, clock, n)
	}
}

// pickCategory maps a uniform draw to Fraud 20%, Ops 25%, Safety 20%,
// Sales 20%, Health 15%.
func pickCategory(r float64) models.Category {
	switch {
	case r < 0.20:
		return models.CategoryFraud
	case r < 0.45:
		return models.CategoryOps
	case r < 0.65:
		return models.CategorySafety
	case r < 0.85:
		return models.CategorySales
	default:
		return models.CategoryHealth
	}
}

// pickSeverity maps a uniform draw to High 30%, Medium 40%, Low 30%.
func pickSeverity(r float64) models.Severity {
	switch {
	case r < 0.30:
		return models.SeverityHigh
	case r < 0.70:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// pickTags draws one to three distinct tags.
func pickTags(rng *rand.Rand) []string {
	n := rng.Intn(3) + 1
	tags := make([]string, 0, n)
	for len(tags) < n {
		t := seedTags[rng.Intn(len(seedTags))]
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags
}
