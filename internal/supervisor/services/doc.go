// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package services adapts packetsim components to suture.Service.
//
// Components whose Serve(ctx) already follows the suture contract (the
// event bus, run manager, dataset catalog, WebSocket hub and forwarder) are
// wrapped by Named so the supervisor logs them under a stable name.
// HTTPServerService translates http.Server's blocking ListenAndServe into a
// context-aware Serve with graceful shutdown.
package services
