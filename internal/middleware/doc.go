// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package middleware provides HTTP middleware shared by the API router:
// request ID propagation into the logging context and Prometheus request
// instrumentation keyed by chi route pattern.
package middleware
