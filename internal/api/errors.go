// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/packetsim/internal/models"
	"github.com/tomtom215/packetsim/internal/simulation"
	"github.com/tomtom215/packetsim/internal/uploads"
)

// errorMapping ties a sentinel error to its HTTP status and error code.
type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{uploads.ErrNotFound, http.StatusNotFound, "DATASET_NOT_FOUND"},
	{simulation.ErrRunNotFound, http.StatusNotFound, "RUN_NOT_FOUND"},
	{simulation.ErrTooManyRuns, http.StatusConflict, "TOO_MANY_RUNS"},
	{simulation.ErrManagerStopped, http.StatusServiceUnavailable, "SHUTTING_DOWN"},
	{uploads.ErrTooLarge, http.StatusRequestEntityTooLarge, "DATASET_TOO_LARGE"},
	{uploads.ErrReadOnly, http.StatusConflict, "DATASET_READ_ONLY"},
	{models.ErrConfiguration, http.StatusUnprocessableEntity, "CONFIGURATION_ERROR"},
	{models.ErrSchemaMismatch, http.StatusUnprocessableEntity, "SCHEMA_MISMATCH"},
	{models.ErrInsufficientData, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA"},
	{models.ErrClassification, http.StatusBadGateway, "CLASSIFICATION_ERROR"},
}

// classifyError maps err onto an HTTP status and error code.
func classifyError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, "DATASET_TOO_LARGE"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// respondServiceError writes the error envelope for a service-layer error.
// Client errors are not logged at error level; only 5xx responses are.
func respondServiceError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)

	var details map[string]interface{}
	var ce *models.ClassificationError
	if errors.As(err, &ce) {
		details = map[string]interface{}{"packet_index": ce.Index}
	}

	message := err.Error()
	var logErr error
	if status >= http.StatusInternalServerError {
		logErr = err
		if status == http.StatusInternalServerError {
			message = "Internal server error"
		}
	}
	respondErrorWithDetails(w, status, code, message, details, logErr)
}
