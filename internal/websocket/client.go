// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 256
)

// clientIDCounter gives clients monotonically increasing IDs so broadcasts
// fan out in a stable order.
var clientIDCounter atomic.Uint64

// Client is one browser connection. The hub writes to send; writePump owns
// the socket for writing and readPump for reading.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// runFilter is read by the hub goroutine and replaced by readPump on
	// a subscribe message. Empty receives every run.
	runFilter atomic.Pointer[string]
}

// NewClient creates a client. A non-empty runID restricts delivery to
// messages of that run.
func NewClient(hub *Hub, conn *websocket.Conn, runID string) *Client {
	c := &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
	c.setRunFilter(runID)
	return c
}

// ID returns the client's unique identifier
func (c *Client) ID() uint64 {
	return c.id
}

// RunFilter returns the run the client is subscribed to, or "" for all runs.
func (c *Client) RunFilter() string {
	if p := c.runFilter.Load(); p != nil {
		return *p
	}
	return ""
}

func (c *Client) setRunFilter(runID string) {
	c.runFilter.Store(&runID)
}

// wants reports whether m should be delivered. Unscoped messages reach
// every client.
func (c *Client) wants(m Message) bool {
	filter := c.RunFilter()
	return filter == "" || m.RunID == "" || m.RunID == filter
}

// reply queues a control response without blocking the read loop.
func (c *Client) reply(m Message) {
	select {
	case c.send <- m:
	default:
		metrics.WSMessagesDropped.Inc()
	}
}

// handle processes one client message. Unknown types are ignored.
func (c *Client) handle(msg Message) {
	switch msg.Type {
	case MessageTypePing:
		c.reply(Message{Type: MessageTypePong})
	case MessageTypeSubscribe:
		c.setRunFilter(msg.RunID)
		logging.Debug().
			Uint64("client_id", c.id).
			Str("run_filter", msg.RunID).
			Msg("websocket client changed subscription")
		c.reply(Message{Type: MessageTypeSubscribed, RunID: msg.RunID})
	}
}

// readPump reads client messages until the connection fails, then
// unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	if err := extend(""); err != nil {
		logging.Error().Err(err).Uint64("client_id", c.id).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(extend)

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Uint64("client_id", c.id).Msg("unexpected websocket close error")
			}
			return
		}
		c.handle(msg)
	}
}

// writeFrame sets the write deadline and runs write.
func (c *Client) writeFrame(write func() error) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return write()
}

// writePump drains send to the socket and keeps the connection alive with
// pings. A closed send channel means the hub dropped the client.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		var err error
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.writeFrame(func() error {
					return c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				})
				return
			}
			err = c.writeFrame(func() error { return c.conn.WriteJSON(message) })
			if err == nil {
				metrics.WSMessagesSent.Inc()
			}

		case <-ticker.C:
			err = c.writeFrame(func() error { return c.conn.WriteMessage(websocket.PingMessage, nil) })
		}

		if err != nil {
			logging.Debug().Err(err).Uint64("client_id", c.id).Msg("websocket write failed")
			return
		}
	}
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
