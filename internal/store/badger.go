// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/models"
)

// snapshotKey holds the whole sequence as one JSON value.
var snapshotKey = []byte("snapshot:events")

// ErrSnapshotterClosed is returned after Close.
var ErrSnapshotterClosed = errors.New("badger snapshotter is closed")

// BadgerOptions configures a BadgerSnapshotter.
type BadgerOptions struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the database in memory. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// CloseTimeout bounds Close. Zero means 30s.
	CloseTimeout time.Duration
}

// BadgerSnapshotter stores the sequence under a single BadgerDB key.
type BadgerSnapshotter struct {
	db           *badger.DB
	closeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// OpenBadger opens (or creates) the database described by opts.
func OpenBadger(opts BadgerOptions) (*BadgerSnapshotter, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("badger path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
		bopts.SyncWrites = opts.SyncWrites
	}

	// Reduce logging verbosity
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	timeout := opts.CloseTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logging.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Bool("sync_writes", opts.SyncWrites).
		Msg("Badger snapshot store opened")

	return &BadgerSnapshotter{db: db, closeTimeout: timeout}, nil
}

// Name implements Snapshotter.
func (b *BadgerSnapshotter) Name() string { return "badger" }

// Load implements Snapshotter.
func (b *BadgerSnapshotter) Load(_ context.Context) ([]models.Event, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, false, ErrSnapshotterClosed
	}

	var events []models.Event
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &events)
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	return events, found, nil
}

// Save implements Snapshotter.
func (b *BadgerSnapshotter) Save(_ context.Context, events []models.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrSnapshotterClosed
	}

	if events == nil {
		events = []models.Event{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(snapshotKey, data))
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// RunGC reclaims value log space left by replaced snapshots.
func (b *BadgerSnapshotter) RunGC(ratio float64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrSnapshotterClosed
	}

	for {
		err := b.db.RunValueLogGC(ratio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close shuts the database down, giving up after the close timeout.
func (b *BadgerSnapshotter) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- b.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		logging.Info().Msg("Badger snapshot store closed")
		return nil
	case <-time.After(b.closeTimeout):
		logging.Warn().Dur("timeout", b.closeTimeout).Msg("BadgerDB close timed out")
		return fmt.Errorf("badgerdb close timeout after %v", b.closeTimeout)
	}
}
