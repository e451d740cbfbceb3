// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/packetsim/internal/export"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/simulation"
)

// maxRunRequestBytes bounds the JSON body of POST /runs.
const maxRunRequestBytes = 4 << 10

const chartTitle = "Packet Classification Summary"

// StartRun godoc
// @Summary Start a simulation run
// @Description Validates the dataset and packet count, then streams classifications in the background
// @Tags Runs
// @Accept json
// @Produce json
// @Param request body StartRunRequest true "Run parameters"
// @Success 202 {object} models.APIResponse{data=models.RunInfo}
// @Failure 400 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Failure 422 {object} models.APIResponse
// @Router /runs [post]
func (h *Handler) StartRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req StartRunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRunRequestBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON request body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorWithDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	info, err := h.runs.Start(r.Context(), simulation.RunRequest{
		DatasetID:   req.DatasetID,
		PacketCount: req.PacketCount,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/runs/"+info.ID)
	respondSuccess(w, http.StatusAccepted, info, start)
}

// ListRuns godoc
// @Summary List retained runs
// @Tags Runs
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.RunInfo}
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, h.runs.List(), time.Now())
}

// GetRun godoc
// @Summary Run state
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.APIResponse{data=models.RunInfo}
// @Failure 404 {object} models.APIResponse
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := runID(w, r)
	if !ok {
		return
	}
	info, err := h.runs.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, info, start)
}

// CancelRun godoc
// @Summary Cancel a run
// @Description Stops a running simulation. The records produced so far stay available for export.
// @Tags Runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.APIResponse{data=models.RunInfo}
// @Failure 404 {object} models.APIResponse
// @Router /runs/{id} [delete]
func (h *Handler) CancelRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := runID(w, r)
	if !ok {
		return
	}
	info, err := h.runs.Cancel(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("run_id", id).Msg("Run cancel requested")
	respondSuccess(w, http.StatusOK, info, start)
}

// ExportRun godoc
// @Summary Download the packet log
// @Description CSV with columns Packet #, Source IP, Destination IP, Prediction, True Label, Status
// @Tags Runs
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} models.APIResponse
// @Router /runs/{id}/export [get]
func (h *Handler) ExportRun(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}
	records, info, err := h.runs.Records(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, records); err != nil {
		respondError(w, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export run", err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Run-Status", string(info.Status))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Error().Err(err).Str("run_id", id).Msg("Failed to write export")
	}
}

// RunChart godoc
// @Summary Normal vs attack chart
// @Tags Runs
// @Produce image/png
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} models.APIResponse
// @Router /runs/{id}/chart.png [get]
func (h *Handler) RunChart(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(w, r)
	if !ok {
		return
	}
	info, err := h.runs.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteChartPNG(&buf, info.Snapshot.Normal, info.Snapshot.Attack, chartTitle); err != nil {
		respondError(w, http.StatusInternalServerError, "CHART_ERROR", "Failed to render chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Error().Err(err).Str("run_id", id).Msg("Failed to write chart")
	}
}

func runID(w http.ResponseWriter, r *http.Request) (string, bool) {
	param := runIDParam{ID: chi.URLParam(r, "id")}
	if apiErr := validateRequest(&param); apiErr != nil {
		respondErrorWithDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return "", false
	}
	return param.ID, true
}
