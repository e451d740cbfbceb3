// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig tunes restart backoff for every supervisor in the tree.
// Zero fields take the DefaultTreeConfig value.
type TreeConfig struct {
	FailureThreshold float64       // failures tolerated before backoff
	FailureDecay     float64       // seconds for the failure count to decay
	FailureBackoff   time.Duration // pause once the threshold is crossed
	ShutdownTimeout  time.Duration // per-service stop deadline
}

// DefaultTreeConfig returns suture's documented defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	pick := func(v, def float64) float64 {
		if v == 0 {
			return def
		}
		return v
	}
	pickDur := func(v, def time.Duration) time.Duration {
		if v == 0 {
			return def
		}
		return v
	}
	return TreeConfig{
		FailureThreshold: pick(c.FailureThreshold, d.FailureThreshold),
		FailureDecay:     pick(c.FailureDecay, d.FailureDecay),
		FailureBackoff:   pickDur(c.FailureBackoff, d.FailureBackoff),
		ShutdownTimeout:  pickDur(c.ShutdownTimeout, d.ShutdownTimeout),
	}
}

func (c TreeConfig) options() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree groups services into three layers under one root so a
// crash in one layer restarts only that layer's services:
//
//	packetsim
//	├── data-layer       dataset catalog maintenance
//	├── messaging-layer  event bus, run manager, hub, forwarder
//	└── api-layer        HTTP server
type SupervisorTree struct {
	root      *suture.Supervisor
	data      *suture.Supervisor
	messaging *suture.Supervisor
	api       *suture.Supervisor
	config    TreeConfig
}

// NewSupervisorTree builds the tree. Supervisor events are logged through
// logger via sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	config = config.withDefaults()

	rootOpts := config.options()
	hook := &sutureslog.Handler{Logger: logger}
	rootOpts.EventHook = hook.MustHook()

	t := &SupervisorTree{
		root:      suture.New("packetsim", rootOpts),
		data:      suture.New("data-layer", config.options()),
		messaging: suture.New("messaging-layer", config.options()),
		api:       suture.New("api-layer", config.options()),
		config:    config,
	}
	// Layers inherit the root's event hook once added.
	for _, layer := range []*suture.Supervisor{t.data, t.messaging, t.api} {
		t.root.Add(layer)
	}
	return t, nil
}

// Root returns the root supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor { return t.root }

// AddDataService adds svc to the data layer.
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddMessagingService adds svc to the messaging layer.
func (t *SupervisorTree) AddMessagingService(svc suture.Service) suture.ServiceToken {
	return t.messaging.Add(svc)
}

// AddAPIService adds svc to the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve blocks until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error { return t.root.Serve(ctx) }

// ServeBackground runs the tree in a goroutine. The channel yields the
// final error, or nil, then closes.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
