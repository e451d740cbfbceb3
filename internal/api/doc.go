// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

/*
Package api provides the HTTP interface of packetsim.

Routing uses the Chi router with a fixed middleware stack: request IDs,
real client IP extraction, panic recovery and CORS globally, then per-group
rate limiting, security headers and Prometheus instrumentation.

Endpoint Categories:

Health (/api/v1/health):
  - GET /api/v1/health: component status, classifier breaker state, uptime
  - GET /api/v1/health/live: liveness probe
  - GET /api/v1/health/ready: readiness probe

Datasets (/api/v1/datasets):
  - POST /api/v1/datasets: upload a CSV (multipart field "file" or raw body)
  - GET /api/v1/datasets: list registered datasets
  - GET /api/v1/datasets/{id}: dataset metadata and packet range
  - DELETE /api/v1/datasets/{id}: remove an uploaded dataset

Runs (/api/v1/runs):
  - POST /api/v1/runs: start a simulation run (202 Accepted)
  - GET /api/v1/runs: list retained runs
  - GET /api/v1/runs/{id}: run state with the latest snapshot
  - DELETE /api/v1/runs/{id}: cancel a running simulation
  - GET /api/v1/runs/{id}/export: simulation_log.csv download
  - GET /api/v1/runs/{id}/chart.png: normal vs attack bar chart

Streaming:
  - GET /api/v1/ws[?run_id=<id>]: WebSocket feed of run events

Metrics:
  - GET /metrics: Prometheus exposition

Response Format:

JSON endpoints return the models.APIResponse envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 3}
	}

Errors carry a machine-readable code; simulation failures map onto
CONFIGURATION_ERROR, SCHEMA_MISMATCH, INSUFFICIENT_DATA and
CLASSIFICATION_ERROR.
*/
package api
