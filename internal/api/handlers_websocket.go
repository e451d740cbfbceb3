// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"net/http"

	"github.com/tomtom215/packetsim/internal/logging"
	ws "github.com/tomtom215/packetsim/internal/websocket"
)

// WebSocket godoc
// @Summary Live run stream
// @Description Upgrades to a WebSocket that receives run_started, packet and run_finished messages
// @Tags Streaming
// @Param run_id query string false "Only stream this run"
// @Success 101
// @Failure 400 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket hub not available", nil)
		return
	}

	runFilter := r.URL.Query().Get("run_id")
	if runFilter != "" {
		param := runIDParam{ID: runFilter}
		if apiErr := validateRequest(&param); apiErr != nil {
			respondErrorWithDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
			return
		}
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logging.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn, runFilter)
	h.wsHub.Register <- client
	client.Start()
}
