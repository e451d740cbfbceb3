// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

// StartRunRequest is the body of POST /api/v1/runs.
// PacketCount 0 selects the dataset's default; other values are clamped to
// the dataset's packet range.
type StartRunRequest struct {
	DatasetID   string `json:"dataset_id" validate:"required,datasetid"`
	PacketCount int    `json:"packet_count" validate:"min=0"`
}

// runIDParam validates the {id} path segment of run endpoints.
type runIDParam struct {
	ID string `json:"id" validate:"required,uuid4"`
}

// datasetIDParam validates the {id} path segment of dataset endpoints.
type datasetIDParam struct {
	ID string `json:"id" validate:"required,datasetid"`
}

// uploadNameParam validates the optional ?name= of raw-body uploads.
type uploadNameParam struct {
	Name string `json:"name" validate:"omitempty,max=255"`
}
