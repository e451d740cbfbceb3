// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

/*
Package websocket streams simulation progress to browser clients.

A Hub owns the set of connected clients and fans messages out to them.
The Forwarder subscribes to the simulation event bus and turns every event
into a hub broadcast, so the engine never talks to sockets directly:

	Manager ──► events.Bus ──► Forwarder ──► Hub ──► Client (writePump)

Message types:

  - run_started: a run was accepted; data is the run state
  - packet: one classified packet; data holds the record and the snapshot
    taken right after it
  - run_finished: terminal run state with the summary or error
  - ping / pong: application level keepalive
  - subscribe (client) / subscribed (server): switch the run filter; an
    empty run_id receives every run

Clients may connect with ?run_id=<id> to receive only that run's messages.
Slow clients whose send buffer fills are disconnected instead of blocking
the hub.
*/
package websocket
