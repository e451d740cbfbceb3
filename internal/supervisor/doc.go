// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

/*
Package supervisor runs the long-lived packetsim components under a suture
supervisor tree.

Tree layout:

	packetsim (root)
	├── data-layer
	│   └── dataset-catalog      upload store garbage collection
	├── messaging-layer
	│   ├── event-bus            watermill gochannel lifetime
	│   ├── run-manager          cancels runs on shutdown
	│   ├── websocket-hub        client fan-out
	│   └── event-forwarder      bus to hub bridge
	└── api-layer
	    └── http-server

A crashing service is restarted by its layer supervisor with exponential
backoff; repeated failures in one layer do not take down the others.
Supervisor events are logged through sutureslog into the zerolog logger.
*/
package supervisor
