// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package websocket

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/packetsim/internal/events"
	"github.com/tomtom215/packetsim/internal/logging"
)

// Subscriber is the event source the forwarder consumes.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// Forwarder bridges simulation events from the bus to WebSocket broadcasts.
type Forwarder struct {
	hub *Hub
	bus Subscriber
	log *logging.EventLogger
}

// NewForwarder creates a bus to WebSocket bridge.
func NewForwarder(hub *Hub, bus Subscriber) *Forwarder {
	return &Forwarder{hub: hub, bus: bus, log: logging.NewEventLogger()}
}

const forwarderConsumer = "websocket-forwarder"

// Serve subscribes to the bus and forwards events until ctx is canceled or
// the bus closes. It implements suture.Service.
func (f *Forwarder) Serve(ctx context.Context) error {
	messages, err := f.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	f.log.LogSubscriptionStarted(events.Topic, forwarderConsumer)

	for {
		select {
		case <-ctx.Done():
			f.log.LogSubscriptionStopped(events.Topic, forwarderConsumer, "context_done")
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					f.log.LogSubscriptionStopped(events.Topic, forwarderConsumer, "context_done")
					return ctx.Err()
				}
				// Bus closed underneath us; let the supervisor decide.
				f.log.LogSubscriptionStopped(events.Topic, forwarderConsumer, "bus_closed")
				return nil
			}
			f.handleMessage(msg)
		}
	}
}

func (f *Forwarder) handleMessage(msg *message.Message) {
	// Acked even when malformed; redelivery would fail the same way.
	defer msg.Ack()

	e, err := events.Unmarshal(msg.Payload)
	if err != nil {
		f.log.LogMalformed(msg.UUID, err)
		return
	}
	f.hub.BroadcastEvent(e)
}
