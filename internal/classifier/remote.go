// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/metrics"
)

// RemoteConfig configures an HTTP inference classifier.
type RemoteConfig struct {
	// Name identifies the breaker in logs and metrics.
	Name string

	// Endpoint receives POST {"features":[...]} and answers {"label":"..."}.
	Endpoint string

	// Timeout bounds a single inference request.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration

	// Features is the expected row width; 0 disables the check.
	Features int

	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
}

// DefaultRemoteConfig returns conservative breaker settings.
func DefaultRemoteConfig(endpoint string) RemoteConfig {
	return RemoteConfig{
		Name:             "remote-classifier",
		Endpoint:         endpoint,
		Timeout:          5 * time.Second,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// Remote classifies rows through an HTTP inference service.
type Remote struct {
	cfg     RemoteConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
}

type inferenceRequest struct {
	Features []float64 `json:"features"`
}

type inferenceResponse struct {
	Label string `json:"label"`
}

// NewRemote builds a breaker-protected remote classifier.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("remote classifier endpoint is required")
	}
	if cfg.Name == "" {
		cfg.Name = "remote-classifier"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Classifier circuit breaker state changed")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			metrics.RecordCircuitBreakerState(name, stateValue(to))
		},
		// Caller cancellation is not counted as a service failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	metrics.RecordCircuitBreakerState(cfg.Name, 0)
	return &Remote{
		cfg:     cfg,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}, nil
}

// NumFeatures returns the configured input width (0 when unknown).
func (r *Remote) NumFeatures() int {
	return r.cfg.Features
}

// State returns the breaker state as a string for health reporting.
func (r *Remote) State() string {
	return r.breaker.State().String()
}

// Predict sends row to the inference service.
func (r *Remote) Predict(ctx context.Context, row []float64) (string, error) {
	if err := checkWidth(row, r.cfg.Features); err != nil {
		return "", err
	}

	label, err := r.breaker.Execute(func() (string, error) {
		return r.call(ctx, row)
	})
	switch {
	case err == nil:
		metrics.RecordCircuitBreakerRequest(r.cfg.Name, "success")
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(r.cfg.Name, "rejected")
		return "", fmt.Errorf("inference service unavailable: %w", err)
	default:
		metrics.RecordCircuitBreakerRequest(r.cfg.Name, "failure")
		return "", err
	}
	return label, nil
}

func (r *Remote) call(ctx context.Context, row []float64) (string, error) {
	body, err := json.Marshal(inferenceRequest{Features: row})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference service returned %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}

	var out inferenceResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	if out.Label == "" {
		return "", errors.New("inference response has no label")
	}
	return out.Label, nil
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
