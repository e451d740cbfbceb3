// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/packetsim/internal/models"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	DatasetCount     int     `json:"dataset_count"`
	ActiveRuns       int     `json:"active_runs"`
	WebSocketClients int     `json:"websocket_clients"`
	ClassifierState  string  `json:"classifier_state"`
	Uptime           float64 `json:"uptime"`
}

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// Health godoc
// @Summary Service health
// @Description Reports dataset, run and classifier status
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	health := HealthStatus{
		Status:          "healthy",
		Version:         Version,
		ClassifierState: h.classifierState(),
		Uptime:          time.Since(h.startTime).Seconds(),
	}

	if h.datasets != nil {
		list, err := h.datasets.List(r.Context())
		if err != nil {
			health.Status = "degraded"
		} else {
			health.DatasetCount = len(list)
		}
	}
	if h.runs != nil {
		health.ActiveRuns = h.runs.ActiveRuns()
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}
	if health.ClassifierState == "open" || health.ClassifierState == "missing" {
		health.Status = "degraded"
	}

	respondSuccess(w, http.StatusOK, health, start)
}

// HealthLive godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady godoc
// @Summary Readiness probe
// @Description Ready once a classifier and both services are wired
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	state := h.classifierState()
	ready := h.runs != nil && h.datasets != nil && state != "missing" && state != "open"

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"classifier_state": state,
			"ready_to_serve":   ready,
			"uptime":           time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// classifierState is "missing", "local", or the breaker state of a remote
// classifier ("closed", "half-open", "open").
func (h *Handler) classifierState() string {
	if h.classifier == nil {
		return "missing"
	}
	if b, ok := h.classifier.(breakerStater); ok {
		return b.State()
	}
	return "local"
}
