// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package websocket

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/packetsim/internal/events"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/metrics"
	"github.com/tomtom215/packetsim/internal/models"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeRunStarted  = string(events.TypeRunStarted)
	MessageTypePacket      = string(events.TypePacket)
	MessageTypeRunFinished = string(events.TypeRunFinished)
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeSubscribed  = "subscribed"
)

// Message represents a WebSocket message. RunID scopes the message to one
// run; clients that subscribed to a different run do not receive it.
type Message struct {
	Type  string      `json:"type"`
	RunID string      `json:"run_id,omitempty"`
	Data  interface{} `json:"data"`
}

// Hub owns the connected clients. Only the Run loop mutates the client
// set; mu guards it for readers such as GetClientCount.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	log        zerolog.Logger
}

// NewHub creates a hub; call Serve to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        logging.WithComponent("websocket-hub"),
	}
}

// RunWithContext processes registrations and broadcasts until ctx ends,
// then closes every client and returns ctx.Err(). Pending registrations
// are drained before each broadcast so a client that connected first
// sees the message.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return h.shutdown(ctx)
		}

		select {
		case c := <-h.Register:
			h.add(c)
			continue
		case c := <-h.Unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return h.shutdown(ctx)
		case c := <-h.Register:
			h.add(c)
		case c := <-h.Unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Serve implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(n))
	h.log.Info().Uint64("client_id", c.id).Str("run_filter", c.RunFilter()).Int("total_clients", n).Msg("Client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	known := h.dropLocked(c)
	n := len(h.clients)
	h.mu.Unlock()

	if known {
		metrics.WSConnections.Set(float64(n))
		h.log.Info().Uint64("client_id", c.id).Int("total_clients", n).Msg("Client disconnected")
	}
}

// dropLocked closes c's send channel once. Callers hold h.mu.
func (h *Hub) dropLocked(c *Client) bool {
	if !h.clients[c] {
		return false
	}
	delete(h.clients, c)
	close(c.send)
	return true
}

func (h *Hub) shutdown(ctx context.Context) error {
	h.mu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		h.dropLocked(c)
	}
	h.mu.Unlock()
	metrics.WSConnections.Set(0)

	h.log.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", n).
		Msg("Hub stopped")
	return ctx.Err()
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// fanOut delivers msg to interested clients in connection order. A client
// whose buffer is full is disconnected rather than stalling the others.
func (h *Hub) fanOut(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ordered := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		ordered = append(ordered, c)
	}
	slices.SortFunc(ordered, func(a, b *Client) int { return cmp.Compare(a.id, b.id) })

	dropped := 0
	for _, c := range ordered {
		if !c.wants(msg) {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.dropLocked(c)
			dropped++
			metrics.WSMessagesDropped.Inc()
			h.log.Warn().Uint64("client_id", c.id).Msg("Client too slow, disconnected")
		}
	}
	if dropped > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

// BroadcastJSON queues a message for all connected clients.
func (h *Hub) BroadcastJSON(messageType, runID string, data interface{}) {
	message := Message{
		Type:  messageType,
		RunID: runID,
		Data:  data,
	}

	select {
	case h.broadcast <- message:
	default:
		metrics.WSMessagesDropped.Inc()
		h.log.Warn().Str("message_type", messageType).Msg("Broadcast queue full, message dropped")
	}
}

// BroadcastEvent forwards a simulation event. Packet events carry the
// record and snapshot; lifecycle events carry the run state.
func (h *Hub) BroadcastEvent(e *events.Event) {
	switch e.Type {
	case events.TypePacket:
		h.BroadcastJSON(string(e.Type), e.RunID, PacketData{Record: e.Record, Snapshot: e.Snapshot})
	default:
		h.BroadcastJSON(string(e.Type), e.RunID, e.Run)
	}
}

// PacketData is the payload of a packet message.
type PacketData struct {
	Record   *models.PacketRecord `json:"record"`
	Snapshot *models.Snapshot     `json:"snapshot"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
