// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/uploads"
)

// uploadOverhead is the allowance for multipart framing on top of the
// configured dataset size limit.
const uploadOverhead = 64 << 10

var errNoFilePart = errors.New(`multipart body has no "file" part`)

// UploadDataset godoc
// @Summary Upload a dataset
// @Description Accepts a CSV either as multipart field "file" or as the raw request body with ?name=
// @Tags Datasets
// @Accept multipart/form-data,text/csv
// @Produce json
// @Param name query string false "Dataset name for raw uploads"
// @Success 201 {object} models.APIResponse{data=models.DatasetInfo}
// @Failure 400 {object} models.APIResponse
// @Failure 413 {object} models.APIResponse
// @Failure 422 {object} models.APIResponse
// @Router /datasets [post]
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+uploadOverhead)
	}

	name, body, err := uploadSource(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	info, err := h.datasets.Upload(r.Context(), name, body)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.Is(err, uploads.ErrTooLarge) || errors.As(err, &maxBytes) {
			h.security.LogUploadRejected(r.RemoteAddr, h.maxUpload)
		}
		respondServiceError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("dataset_id", info.ID).
		Int("rows", info.Rows).
		Msg("Dataset upload accepted")
	respondSuccess(w, http.StatusCreated, info, start)
}

// uploadSource returns the dataset name and CSV stream of an upload request.
// Multipart bodies are streamed part by part instead of buffered by
// ParseMultipartForm.
func uploadSource(r *http.Request) (string, io.Reader, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		param := uploadNameParam{Name: r.URL.Query().Get("name")}
		if apiErr := validateRequest(&param); apiErr != nil {
			return "", nil, errors.New(apiErr.Message)
		}
		return param.Name, r.Body, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return "", nil, err
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil, errNoFilePart
		}
		if err != nil {
			return "", nil, err
		}
		if part.FormName() == "file" {
			return part.FileName(), part, nil
		}
	}
}

// ListDatasets godoc
// @Summary List datasets
// @Tags Datasets
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.DatasetInfo}
// @Router /datasets [get]
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.datasets.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, list, start)
}

// GetDataset godoc
// @Summary Dataset metadata
// @Tags Datasets
// @Produce json
// @Param id path string true "Dataset ID"
// @Success 200 {object} models.APIResponse{data=models.DatasetInfo}
// @Failure 404 {object} models.APIResponse
// @Router /datasets/{id} [get]
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := datasetID(w, r)
	if !ok {
		return
	}
	info, err := h.datasets.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, info, start)
}

// DeleteDataset godoc
// @Summary Delete an uploaded dataset
// @Tags Datasets
// @Param id path string true "Dataset ID"
// @Success 204
// @Failure 404 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /datasets/{id} [delete]
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id, ok := datasetID(w, r)
	if !ok {
		return
	}
	if err := h.datasets.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func datasetID(w http.ResponseWriter, r *http.Request) (string, bool) {
	param := datasetIDParam{ID: chi.URLParam(r, "id")}
	if apiErr := validateRequest(&param); apiErr != nil {
		respondErrorWithDetails(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return "", false
	}
	return param.ID, true
}
