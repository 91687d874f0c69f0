// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package services

import (
	"context"
	"time"

	"github.com/tomtom215/insightops/internal/logging"
)

// Badger GC defaults
const (
	DefaultGCInterval     = 10 * time.Minute
	DefaultGCDiscardRatio = 0.5
)

// GarbageCollector is satisfied by *store.BadgerSnapshotter.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// BadgerGCService reclaims value log space on a fixed interval.
type BadgerGCService struct {
	gc       GarbageCollector
	interval time.Duration
	ratio    float64
	name     string
}

// NewBadgerGCService wraps gc. Non-positive arguments take the defaults.
func NewBadgerGCService(gc GarbageCollector, interval time.Duration, discardRatio float64) *BadgerGCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = DefaultGCDiscardRatio
	}
	return &BadgerGCService{
		gc:       gc,
		interval: interval,
		ratio:    discardRatio,
		name:     "badger-gc",
	}
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(s.ratio); err != nil {
				logging.Warn().Err(err).Msg("Badger value log GC failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Badger value log GC pass complete")
		}
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *BadgerGCService) String() string {
	return s.name
}
