// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package metrics exposes Prometheus instrumentation for simulation runs,
// classification, dataset uploads, the live feed and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Simulation Metrics
	PacketsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulation_packets_classified_total",
			Help: "Total number of simulated packets classified",
		},
		[]string{"outcome"}, // "Normal", "Attack"
	)

	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "simulation_classification_duration_seconds",
			Help:    "Time spent classifying a single packet",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	RunsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "simulation_runs_started_total",
			Help: "Total number of simulation runs started",
		},
	)

	RunsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "simulation_runs_finished_total",
			Help: "Total number of simulation runs by terminal status",
		},
		[]string{"status", "error_kind"},
	)

	ActiveRuns = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "simulation_active_runs",
			Help: "Current number of running simulations",
		},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "simulation_run_duration_seconds",
			Help:    "Wall-clock duration of simulation runs",
			Buckets: []float64{0.1, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	// Dataset Metrics
	DatasetUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_uploads_total",
			Help: "Total number of dataset uploads",
		},
		[]string{"result"}, // "success", "rejected", "error"
	)

	DatasetsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "datasets_registered",
			Help: "Current number of datasets available for simulation",
		},
	)

	// Remote Classifier Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of simulation events published to the bus",
		},
		[]string{"type"},
	)

	EventPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_publish_errors_total",
			Help: "Total number of failed event publications",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket messages dropped for slow clients",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordPacket records one classified packet.
func RecordPacket(outcome string, duration time.Duration) {
	PacketsClassified.WithLabelValues(outcome).Inc()
	ClassificationDuration.Observe(duration.Seconds())
}

// RecordRunStarted marks a run as active.
func RecordRunStarted() {
	RunsStarted.Inc()
	ActiveRuns.Inc()
}

// RecordRunFinished records a run reaching a terminal status.
func RecordRunFinished(status, errorKind string, duration time.Duration) {
	ActiveRuns.Dec()
	RunsFinished.WithLabelValues(status, errorKind).Inc()
	RunDuration.Observe(duration.Seconds())
}

// RecordDatasetUpload records the result of a dataset upload.
func RecordDatasetUpload(result string) {
	DatasetUploads.WithLabelValues(result).Inc()
}

// RecordCircuitBreakerState sets the breaker state gauge.
// state: 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerRequest records a call through the breaker.
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordEventPublished records a bus publication.
func RecordEventPublished(eventType string, err error) {
	if err != nil {
		EventPublishErrors.Inc()
		return
	}
	EventsPublished.WithLabelValues(eventType).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
