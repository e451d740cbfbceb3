// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

/*
Package models defines the data structures shared across packetsim.

Key Components:

  - Dataset: feature matrix plus ground-truth labels, loaded from CSV or DuckDB
  - PacketRecord: one classified packet (index, synthetic addresses, prediction,
    true label and outcome)
  - Snapshot: accumulator state published after every packet
  - RunInfo: lifecycle view of a simulation run
  - APIResponse / APIError: HTTP response envelope

Error Taxonomy:

ErrConfiguration, ErrSchemaMismatch, ErrInsufficientData and
ClassificationError (which carries the 1-based packet index) are the
terminal failures of a run. KindOf maps any error onto a stable ErrorKind
string for the API and event payloads.
*/
package models
