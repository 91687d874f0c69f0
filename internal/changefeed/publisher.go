// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package changefeed

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/metrics"
	"github.com/tomtom215/insightops/internal/models"
)

// Topic carries every event change notification.
const Topic = "events.changed"

// Metadata keys set on each message.
const (
	MetadataChangeType = "change_type"
	MetadataEventID    = "event_id"
)

// NewLogger adapts the application logger for watermill.
func NewLogger() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger())
}

// NewPubSub returns the in-process bus. Publish never waits for
// subscribers to acknowledge.
func NewPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            256,
		BlockPublishUntilSubscriberAck: false,
	}, logger)
}

// Publisher encodes notifications onto Topic. It satisfies
// store.ChangePublisher.
type Publisher struct {
	pub message.Publisher
}

// NewPublisher wraps a watermill publisher.
func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// Publish sends n on Topic.
func (p *Publisher) Publish(ctx context.Context, n models.ChangeNotification) (err error) {
	defer func() { metrics.RecordChangeNotification(string(n.Type), err) }()

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode change notification: %w", err)
	}

	msg := message.NewMessage(n.ID, payload)
	msg.Metadata.Set(MetadataChangeType, string(n.Type))
	msg.Metadata.Set(MetadataEventID, n.EventID)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}

	if err := p.pub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish change notification: %w", err)
	}
	return nil
}

// Decode reads a notification back from a message payload.
func Decode(msg *message.Message) (models.ChangeNotification, error) {
	var n models.ChangeNotification
	if err := json.Unmarshal(msg.Payload, &n); err != nil {
		return models.ChangeNotification{}, fmt.Errorf("decode change notification %s: %w", msg.UUID, err)
	}
	return n, nil
}
