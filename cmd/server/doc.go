// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

/*
Package main is the entry point for the packetsim server.

The server replays labeled network flows through a fitted classifier, one
packet at a time, and streams every classification to WebSocket clients
together with running normal and attack counts.

# Application Architecture

	RootSupervisor ("packetsim")
	├── DataSupervisor ("data-layer")
	│   └── Dataset catalog (BadgerDB upload store)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event bus (Watermill GoChannel)
	│   ├── Run manager
	│   ├── WebSocket hub
	│   └── Event forwarder (bus to hub)
	└── APISupervisor ("api-layer")
	    └── HTTP server (Chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON/console output
 3. Preprocessor: fitted scaler from MODEL_SCALER_PATH
 4. Classifier: local model file, or remote inference behind a circuit breaker
 5. Dataset catalog: default dataset from DATASET_PATH plus persisted uploads
 6. Event bus, run manager, WebSocket hub and forwarder
 7. Supervisor tree and HTTP server

A missing or malformed scaler or model is fatal at startup. A missing
default dataset is not; datasets can still be uploaded.
*/
package main
