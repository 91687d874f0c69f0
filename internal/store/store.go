// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/metrics"
	"github.com/tomtom215/insightops/internal/models"
	"github.com/tomtom215/insightops/internal/query"
)

// Snapshotter is the durable storage behind an EventStore.
type Snapshotter interface {
	// Load returns the stored sequence. found is false when nothing has
	// been stored yet.
	Load(ctx context.Context) (events []models.Event, found bool, err error)

	// Save replaces the stored sequence with events.
	Save(ctx context.Context, events []models.Event) error

	// Name identifies the backend in logs and metrics.
	Name() string
}

// ChangePublisher receives a notification after each durable mutation.
type ChangePublisher interface {
	Publish(ctx context.Context, change models.ChangeNotification) error
}

// EventStore is the mutex-guarded event sequence.
type EventStore struct {
	mu          sync.RWMutex
	events      []models.Event
	snapshotter Snapshotter
	publisher   ChangePublisher
	clock       query.Clock
}

// New creates a store holding events. The slice is copied.
func New(snapshotter Snapshotter, events []models.Event) *EventStore {
	s := &EventStore{
		events:      cloneAll(events),
		snapshotter: snapshotter,
		clock:       query.SystemClock{},
	}
	metrics.StoreEvents.Set(float64(len(s.events)))
	return s
}

// SeedFunc builds the initial sequence when no snapshot exists.
type SeedFunc func() []models.Event

// Open loads the prior snapshot. Without one, the sequence comes from seed
// and is written before Open returns. A nil seed starts empty.
func Open(ctx context.Context, snapshotter Snapshotter, seed SeedFunc) (*EventStore, error) {
	events, found, err := snapshotter.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s snapshot: %w", snapshotter.Name(), err)
	}

	if found {
		logging.Info().
			Str("backend", snapshotter.Name()).
			Int("events", len(events)).
			Msg("Loaded event snapshot")
		return New(snapshotter, events), nil
	}

	if seed == nil {
		logging.Info().Str("backend", snapshotter.Name()).Msg("No event snapshot found, starting empty")
		return New(snapshotter, nil), nil
	}

	events = seed()
	if err := snapshotter.Save(ctx, events); err != nil {
		return nil, fmt.Errorf("save seeded %s snapshot: %w", snapshotter.Name(), err)
	}
	logging.Info().
		Str("backend", snapshotter.Name()).
		Int("events", len(events)).
		Msg("Seeded event snapshot")

	return New(snapshotter, events), nil
}

// SetPublisher sets the change publisher. Nil disables notifications.
func (s *EventStore) SetPublisher(p ChangePublisher) {
	s.mu.Lock()
	s.publisher = p
	s.mu.Unlock()
}

// SetClock replaces the clock used to timestamp change notifications.
func (s *EventStore) SetClock(c query.Clock) {
	s.mu.Lock()
	s.clock = c
	s.mu.Unlock()
}

// ListAll returns a copy of the full sequence in storage order.
func (s *EventStore) ListAll() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.events)
}

// Get returns the event with the given id.
func (s *EventStore) Get(id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.GetByID(s.events, id)
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Insert appends e. It fails with ErrDuplicateID if e.ID is already present.
func (s *EventStore) Insert(ctx context.Context, e models.Event) (err error) {
	defer func() { metrics.RecordStoreMutation("insert", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(e.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
	}

	e = e.Clone()
	next := append(slices.Clone(s.events), e)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.notify(ctx, models.ChangeCreated, e.ID, &e)
	return nil
}

// Update merges patch into the event with the given id and returns the
// merged event. id and createdAt never change. An empty patch returns the
// event as stored without a durable write or change notification.
func (s *EventStore) Update(ctx context.Context, id string, patch models.EventPatch) (_ models.Event, err error) {
	defer func() { metrics.RecordStoreMutation("update", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.Event{}, ErrNotFound
	}

	if patch.Empty() {
		return s.events[idx].Clone(), nil
	}

	updated := patch.Apply(s.events[idx])
	next := slices.Clone(s.events)
	next[idx] = updated
	if err := s.commit(ctx, next); err != nil {
		return models.Event{}, err
	}

	s.notify(ctx, models.ChangeUpdated, id, &updated)
	return updated.Clone(), nil
}

// Delete removes the event with the given id. An unknown id returns
// ErrNotFound without touching durable storage.
func (s *EventStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.RecordStoreMutation("delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrNotFound
	}

	next := slices.Delete(slices.Clone(s.events), idx, idx+1)
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.notify(ctx, models.ChangeDeleted, id, nil)
	return nil
}

// commit writes next durably and then makes it current. Callers hold mu.
func (s *EventStore) commit(ctx context.Context, next []models.Event) error {
	start := time.Now()
	err := s.snapshotter.Save(ctx, next)
	metrics.RecordSnapshotWrite(s.snapshotter.Name(), time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("backend", s.snapshotter.Name()).
			Int("events", len(next)).
			Msg("Failed to persist event snapshot")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.events = next
	metrics.StoreEvents.Set(float64(len(next)))
	return nil
}

// notify publishes a change. Failures are logged and never surface to the
// caller because the mutation is already durable. Callers hold mu.
func (s *EventStore) notify(ctx context.Context, typ models.ChangeType, id string, e *models.Event) {
	if s.publisher == nil {
		return
	}

	change := models.ChangeNotification{
		ID:      uuid.NewString(),
		Type:    typ,
		EventID: id,
		At:      s.clock.Now().UTC(),
	}
	if e != nil {
		c := e.Clone()
		change.Event = &c
	}

	err := s.publisher.Publish(ctx, change)
	metrics.RecordChangeNotification(string(typ), err)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("event_id", id).
			Str("type", string(typ)).
			Msg("Failed to publish change notification")
	}
}

func (s *EventStore) indexOf(id string) int {
	return slices.IndexFunc(s.events, func(e models.Event) bool { return e.ID == id })
}

func cloneAll(events []models.Event) []models.Event {
	out := make([]models.Event, len(events))
	for i := range events {
		out[i] = events[i].Clone()
	}
	return out
}
