// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:3857/metrics

# Available Metrics

Simulation Metrics:
  - simulation_packets_classified_total: Packets classified (counter)
    Labels: outcome (Normal, Attack)
  - simulation_classification_duration_seconds: Per-packet classifier latency (histogram)
  - simulation_runs_started_total: Runs accepted (counter)
  - simulation_runs_finished_total: Runs by terminal state (counter)
    Labels: status, error_kind
  - simulation_active_runs: Runs in progress (gauge)
  - simulation_run_duration_seconds: Wall-clock run duration (histogram)

Dataset Metrics:
  - dataset_uploads_total: Upload attempts (counter)
    Labels: result
  - datasets_registered: Datasets available to runs (gauge)

Circuit Breaker Metrics (remote classifier):
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

Event and WebSocket Metrics:
  - events_published_total, events_publish_errors_total
  - websocket_connections, websocket_messages_sent_total,
    websocket_messages_dropped_total

HTTP Metrics (middleware.PrometheusMetrics):
  - api_requests_total, api_request_duration_seconds, api_active_requests

Example PromQL queries:

	# Attack share over the last five minutes
	sum(rate(simulation_packets_classified_total{outcome="Attack"}[5m]))
	  / sum(rate(simulation_packets_classified_total[5m]))

	# p95 classifier latency
	histogram_quantile(0.95, rate(simulation_classification_duration_seconds_bucket[5m]))

# Cardinality Management

Labels never carry run IDs, dataset IDs or client addresses. API endpoint
labels use the chi route pattern rather than the raw path.
*/
package metrics
