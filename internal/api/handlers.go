// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/packetsim/internal/classifier"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/models"
	"github.com/tomtom215/packetsim/internal/simulation"
	ws "github.com/tomtom215/packetsim/internal/websocket"
)

// RunService is the subset of *simulation.Manager used by the handlers.
type RunService interface {
	Start(ctx context.Context, req simulation.RunRequest) (models.RunInfo, error)
	Get(id string) (models.RunInfo, error)
	List() []models.RunInfo
	Records(id string) ([]models.PacketRecord, models.RunInfo, error)
	Cancel(id string) (models.RunInfo, error)
	ActiveRuns() int
}

// DatasetService is the subset of *uploads.Catalog used by the handlers.
type DatasetService interface {
	Upload(ctx context.Context, name string, r io.Reader) (models.DatasetInfo, error)
	Get(ctx context.Context, id string) (models.DatasetInfo, error)
	List(ctx context.Context) ([]models.DatasetInfo, error)
	Delete(ctx context.Context, id string) error
}

// breakerStater is implemented by classifiers behind a circuit breaker.
type breakerStater interface {
	State() string
}

// Handler serves the packetsim HTTP API.
type Handler struct {
	runs        RunService
	datasets    DatasetService
	classifier  classifier.Classifier
	wsHub       *ws.Hub
	corsOrigins []string
	maxUpload   int64
	security    *logging.SecurityLogger
	startTime   time.Time
}

// HandlerConfig carries the optional handler settings.
type HandlerConfig struct {
	// CORSOrigins is the WebSocket origin allow list. "*" allows any
	// non-empty origin; nil disables the check.
	CORSOrigins []string

	// MaxUploadBytes bounds dataset upload bodies. 0 means unlimited.
	MaxUploadBytes int64
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - runs: simulation run manager
//   - datasets: dataset catalog
//   - clf: the classifier in use, reported by the health endpoint
//   - wsHub: WebSocket hub for live run streaming (may be nil)
func NewHandler(runs RunService, datasets DatasetService, clf classifier.Classifier, wsHub *ws.Hub, cfg HandlerConfig) *Handler {
	return &Handler{
		runs:        runs,
		datasets:    datasets,
		classifier:  clf,
		wsHub:       wsHub,
		corsOrigins: cfg.CORSOrigins,
		maxUpload:   cfg.MaxUploadBytes,
		security:    logging.NewSecurityLogger(),
		startTime:   time.Now(),
	}
}

// getUpgrader returns a WebSocket upgrader with origin validation
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates the Origin header against the configured
// allow list. Requests without an Origin are rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		h.security.LogOriginRejected(r.RemoteAddr, "", r.UserAgent())
		return false
	}

	if h.corsOrigins == nil {
		return true
	}

	for _, allowed := range h.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	h.security.LogOriginRejected(r.RemoteAddr, origin, r.UserAgent())
	return false
}
