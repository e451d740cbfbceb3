// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package models

import "time"

// APIResponse is the envelope returned by every JSON endpoint.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"id": "6c1f...", "status": "running", "packet_count": 50},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 2}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "INSUFFICIENT_DATA",
//	    "message": "requested 500 packets, dataset holds 120"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the structured error body.
//
// Codes in use:
//   - VALIDATION_ERROR: malformed request parameters
//   - CONFIGURATION_ERROR: dataset has no label column or similar
//   - SCHEMA_MISMATCH: feature schema differs from the fitted model
//   - INSUFFICIENT_DATA: more packets requested than the dataset holds
//   - CLASSIFICATION_ERROR: the classifier failed on a packet
//   - DATASET_NOT_FOUND / RUN_NOT_FOUND: unknown identifier
//   - TOO_MANY_RUNS: concurrent run limit reached
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
