// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package changefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/metrics"
	"github.com/tomtom215/insightops/internal/models"
)

const handlerName = "changefeed-forwarder"

// Broadcaster receives decoded notifications. *websocket.Hub implements it.
type Broadcaster interface {
	BroadcastChange(n models.ChangeNotification) error
}

// Forwarder routes Topic to a Broadcaster. It implements suture.Service;
// each Serve call builds a fresh router because a closed router cannot be
// restarted.
type Forwarder struct {
	sub          message.Subscriber
	out          Broadcaster
	logger       watermill.LoggerAdapter
	closeTimeout time.Duration

	// running is signalled once per Serve after the router has subscribed.
	running chan struct{}
}

// NewForwarder creates a forwarder reading from sub.
func NewForwarder(sub message.Subscriber, out Broadcaster, logger watermill.LoggerAdapter) *Forwarder {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Forwarder{
		sub:          sub,
		out:          out,
		logger:       logger,
		closeTimeout: 10 * time.Second,
		running:      make(chan struct{}, 1),
	}
}

// Running yields a value each time the router is ready.
func (f *Forwarder) Running() <-chan struct{} {
	return f.running
}

// Serve runs the router until ctx is done.
func (f *Forwarder) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: f.closeTimeout}, f.logger)
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddConsumerHandler(handlerName, Topic, f.sub, f.handle)

	go func() {
		select {
		case <-router.Running():
			select {
			case f.running <- struct{}{}:
			default:
			}
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("topic", Topic).Msg("change feed forwarder started")
	err = router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("change feed router: %w", err)
	}
	return nil
}

func (f *Forwarder) String() string {
	return handlerName
}

// handle always acknowledges: a bad payload or a full hub is not retried.
func (f *Forwarder) handle(msg *message.Message) error {
	n, err := Decode(msg)
	if err != nil {
		metrics.ChangeNotificationErrors.WithLabelValues("decode").Inc()
		logging.Warn().Err(err).Msg("dropping undecodable change notification")
		return nil
	}
	if err := f.out.BroadcastChange(n); err != nil {
		metrics.ChangeNotificationErrors.WithLabelValues("broadcast").Inc()
		logging.Warn().Err(err).Str("event_id", n.EventID).Msg("change notification not broadcast")
		return nil
	}
	logging.Debug().
		Str("event_id", n.EventID).
		Str("change_type", string(n.Type)).
		Str("correlation_id", msg.Metadata.Get("correlation_id")).
		Msg("change notification forwarded")
	return nil
}
