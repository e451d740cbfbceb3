// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/metrics"
)

// ErrBusClosed is returned when publishing after Close.
var ErrBusClosed = errors.New("event bus is closed")

// Config configures the in-process bus.
type Config struct {
	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64

	// BlockUntilAck makes Publish wait until every subscriber acknowledged
	// the message, which keeps packet events in run order for consumers.
	BlockUntilAck bool
}

// DefaultConfig returns the bus defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:    256,
		BlockUntilAck: true,
	}
}

// Bus publishes simulation events to in-process subscribers.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
	events *logging.EventLogger

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a Watermill GoChannel-backed bus.
func NewBus(cfg Config) *Bus {
	logger := logging.NewWatermillAdapter()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            cfg.BufferSize,
			BlockPublishUntilSubscriberAck: cfg.BlockUntilAck,
		}, logger),
		logger: logger,
		events: logging.NewEventLogger(),
	}
}

// Publish serializes and publishes e on Topic.
func (b *Bus) Publish(ctx context.Context, e *Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	data, err := Marshal(e)
	if err != nil {
		metrics.RecordEventPublished(string(e.Type), err)
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set("type", string(e.Type))
	msg.Metadata.Set("run_id", e.RunID)
	msg.SetContext(ctx)

	err = b.pubsub.Publish(Topic, msg)
	metrics.RecordEventPublished(string(e.Type), err)
	if err != nil {
		return fmt.Errorf("publish %s event: %w", e.Type, err)
	}
	b.events.LogEventPublished(ctx, e.EventID, string(e.Type))
	return nil
}

// Subscribe returns a channel of raw messages on Topic. Consumers must Ack
// each message. The channel closes when ctx is canceled or the bus closes.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrBusClosed
	}
	return b.pubsub.Subscribe(ctx, Topic)
}

// Close shuts the bus down. Subscribers' channels are closed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}

// Serve blocks until ctx is canceled and then closes the bus. It lets the
// bus participate in supervised shutdown ordering.
func (b *Bus) Serve(ctx context.Context) error {
	<-ctx.Done()
	if err := b.Close(); err != nil {
		b.logger.Error("Failed to close event bus", err, nil)
	}
	return ctx.Err()
}
