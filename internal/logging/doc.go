// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package logging provides centralized zerolog-based structured logging for Packetsim.
//
// Every component logs through the package-level helpers so that a single
// Init call at startup controls level, format and destination.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Caller: false,
//	})
//
//	logging.Info().Str("run_id", id).Int("packets", n).Msg("Simulation started")
//	logging.Error().Err(err).Msg("Dataset upload failed")
//
// Always terminate log chains with .Msg() or .Send().
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Context-Aware Logging
//
// The HTTP request ID and the simulation run ID travel in the context:
//
//	ctx = logging.ContextWithRunID(ctx, run.ID)
//	logging.Ctx(ctx).Trace().Int("packet", rec.Index).Msg("Packet classified")
//
// # Component Loggers
//
//   - EventLogger: event bus publication and subscriber lifecycle (component=events)
//   - SecurityLogger: requests refused by origin, rate or size checks (component=security)
//   - WatermillAdapter: watermill.LoggerAdapter for the Pub/Sub internals
//   - NewSlogLogger: *slog.Logger bridge for the Suture supervisor tree
//
// Client-supplied strings go through SanitizeHeader before they reach a log line.
//
// # Output Formats
//
// JSON Format (Production):
//
//	{"level":"info","time":"2026-01-03T10:30:00Z","message":"Simulation run finished","run_id":"...","normal":38,"attack":12}
//
// Console Format (Development):
//
//	10:30:00 INF Simulation run finished run_id=... normal=38 attack=12
//
// # Testing
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
package logging
