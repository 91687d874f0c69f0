// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package changefeed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/models"
)

type recordingBroadcaster struct {
	mu   sync.Mutex
	got  []models.ChangeNotification
	fail error
	seen chan struct{}
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{seen: make(chan struct{}, 16)}
}

func (b *recordingBroadcaster) BroadcastChange(n models.ChangeNotification) error {
	b.mu.Lock()
	b.got = append(b.got, n)
	b.mu.Unlock()
	b.seen <- struct{}{}
	return b.fail
}

func (b *recordingBroadcaster) wait(t *testing.T, n int) []models.ChangeNotification {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-b.seen:
		case <-time.After(3 * time.Second):
			t.Fatalf("received %d of %d notifications", i, n)
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.ChangeNotification(nil), b.got...)
}

func startForwarder(t *testing.T, out Broadcaster) (*Publisher, message.Publisher) {
	t.Helper()
	bus := NewPubSub(watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	f := NewForwarder(bus, out, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("forwarder did not stop")
		}
	})

	select {
	case <-f.Running():
	case <-time.After(3 * time.Second):
		t.Fatal("forwarder router never started")
	}
	return NewPublisher(bus), bus
}

func TestPublishAndForward(t *testing.T) {
	out := newRecordingBroadcaster()
	pub, _ := startForwarder(t, out)

	at := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ev := models.Event{ID: "e1", Title: "Fraud Alert in Mumbai", Category: models.CategoryFraud, Severity: models.SeverityHigh, Tags: []string{"fraud-signal"}}
	ctx := logging.ContextWithCorrelationID(context.Background(), "corr1234")

	if err := pub.Publish(ctx, models.ChangeNotification{ID: "n1", Type: models.ChangeCreated, EventID: "e1", Event: &ev, At: at}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := pub.Publish(ctx, models.ChangeNotification{ID: "n2", Type: models.ChangeDeleted, EventID: "e1", At: at}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	got := out.wait(t, 2)
	byID := map[string]models.ChangeNotification{}
	for _, n := range got {
		byID[n.ID] = n
	}
	created, ok := byID["n1"]
	if !ok || created.Event == nil || created.Event.Title != ev.Title || !created.At.Equal(at) {
		t.Errorf("created notification = %+v", created)
	}
	deleted, ok := byID["n2"]
	if !ok || deleted.Type != models.ChangeDeleted || deleted.Event != nil {
		t.Errorf("deleted notification = %+v", deleted)
	}
}

func TestForwarder_BroadcastErrorIsAcked(t *testing.T) {
	out := newRecordingBroadcaster()
	out.fail = errors.New("hub busy")
	pub, _ := startForwarder(t, out)

	for _, id := range []string{"n1", "n2"} {
		if err := pub.Publish(context.Background(), models.ChangeNotification{ID: id, Type: models.ChangeUpdated, EventID: "e"}); err != nil {
			t.Fatal(err)
		}
	}
	// A nacked message would be redelivered ahead of n2 forever.
	got := out.wait(t, 2)
	ids := map[string]bool{}
	for _, n := range got {
		ids[n.ID] = true
	}
	if !ids["n1"] || !ids["n2"] {
		t.Errorf("got %v, want both notifications delivered once", ids)
	}
}

func TestForwarder_SkipsUndecodable(t *testing.T) {
	out := newRecordingBroadcaster()
	pub, bus := startForwarder(t, out)

	if err := bus.Publish(Topic, message.NewMessage(watermill.NewUUID(), []byte("not json"))); err != nil {
		t.Fatal(err)
	}
	if err := pub.Publish(context.Background(), models.ChangeNotification{ID: "ok", Type: models.ChangeUpdated, EventID: "e"}); err != nil {
		t.Fatal(err)
	}
	got := out.wait(t, 1)
	if got[0].ID != "ok" {
		t.Errorf("forwarded %+v, want only the valid notification", got[0])
	}
}

func TestPublish_Metadata(t *testing.T) {
	bus := NewPubSub(nil)
	defer bus.Close()

	msgs, err := bus.Subscribe(context.Background(), Topic)
	if err != nil {
		t.Fatal(err)
	}
	ctx := logging.ContextWithCorrelationID(context.Background(), "abcd1234")
	if err := NewPublisher(bus).Publish(ctx, models.ChangeNotification{ID: "n1", Type: models.ChangeUpdated, EventID: "e9"}); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-msgs:
		msg.Ack()
		if msg.UUID != "n1" {
			t.Errorf("UUID = %q", msg.UUID)
		}
		if msg.Metadata.Get(MetadataChangeType) != "updated" || msg.Metadata.Get(MetadataEventID) != "e9" {
			t.Errorf("metadata = %v", msg.Metadata)
		}
		if msg.Metadata.Get("correlation_id") != "abcd1234" {
			t.Errorf("correlation id not propagated: %v", msg.Metadata)
		}
		n, err := Decode(msg)
		if err != nil || n.EventID != "e9" {
			t.Errorf("Decode() = %+v, %v", n, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message")
	}
}

func TestPublish_ClosedBus(t *testing.T) {
	bus := NewPubSub(nil)
	_ = bus.Close()
	err := NewPublisher(bus).Publish(context.Background(), models.ChangeNotification{ID: "n", Type: models.ChangeCreated})
	if err == nil {
		t.Error("expected error publishing on a closed bus")
	}
}
