// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package simulation replays a scaled, labeled dataset as a stream of
// classified packets.
//
// Engine.Run is the core loop: for the first Count rows of a shuffled dataset
// it classifies each row, derives the Normal/Attack outcome, attaches
// synthetic addresses, updates the run's Accumulator and hands the record to
// a Sink, pacing records by the configured throttle interval. Manager wraps
// the engine with dataset resolution, background execution, cancellation,
// event publication and retention of finished runs.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/packetsim/internal/classifier"
	"github.com/tomtom215/packetsim/internal/identity"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/metrics"
	"github.com/tomtom215/packetsim/internal/models"
)

// Config controls per-record behavior of the engine.
type Config struct {
	// BenignLabel is the prediction that maps to a Normal outcome (case-insensitive).
	BenignLabel string

	// Destination is the address attached to every record.
	Destination string

	// Throttle is the minimum spacing between consecutive records. Zero disables pacing.
	Throttle time.Duration

	// RecentRecords is how many trailing records each snapshot carries.
	RecentRecords int
}

// DefaultConfig returns the interactive defaults.
func DefaultConfig() Config {
	return Config{
		BenignLabel:   models.DefaultBenignLabel,
		Destination:   models.DefaultDestinationAddress,
		Throttle:      300 * time.Millisecond,
		RecentRecords: 5,
	}
}

// Engine executes simulation runs. It holds no per-run state and may run
// any number of simulations concurrently.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine, filling empty fields from DefaultConfig.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.BenignLabel == "" {
		cfg.BenignLabel = def.BenignLabel
	}
	if cfg.Destination == "" {
		cfg.Destination = def.Destination
	}
	if cfg.Throttle < 0 {
		cfg.Throttle = 0
	}
	if cfg.RecentRecords < 0 {
		cfg.RecentRecords = 0
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Input is everything one run consumes. Features[i] is the scaled form of
// Dataset.Rows[i]; both are in simulation order.
type Input struct {
	Dataset    *models.Dataset
	Features   [][]float64
	Classifier classifier.Classifier
	Identity   identity.Generator
	Count      int
}

// Validate reports the configuration, size and schema errors Run would
// return before producing any record.
func (e *Engine) Validate(in Input) error {
	if in.Dataset == nil || in.Classifier == nil || in.Identity == nil {
		return fmt.Errorf("%w: dataset, classifier and identity generator are required", models.ErrConfiguration)
	}
	if in.Count <= 0 {
		return fmt.Errorf("%w: packet count must be positive, got %d", models.ErrConfiguration, in.Count)
	}
	if in.Count > in.Dataset.Len() {
		return fmt.Errorf("%w: requested %d packets, dataset has %d rows",
			models.ErrInsufficientData, in.Count, in.Dataset.Len())
	}
	if len(in.Features) != in.Dataset.Len() {
		return fmt.Errorf("%w: %d scaled rows for %d dataset rows",
			models.ErrSchemaMismatch, len(in.Features), in.Dataset.Len())
	}

	want := 0
	if fc, ok := in.Classifier.(classifier.FeatureCounter); ok {
		want = fc.NumFeatures()
	}
	if want == 0 {
		want = len(in.Features[0])
	}
	for i := 0; i < in.Count; i++ {
		if len(in.Features[i]) != want {
			return fmt.Errorf("%w: row %d has %d features, classifier expects %d",
				models.ErrSchemaMismatch, i+1, len(in.Features[i]), want)
		}
	}
	return nil
}

// Run produces exactly in.Count records in index order, or stops early on
// the first error. The returned accumulator is never nil and always holds
// every record that was fully processed, so callers can inspect or export a
// partial run. Configuration, size and schema errors are reported before the
// first record.
func (e *Engine) Run(ctx context.Context, in Input, sink Sink) (*Accumulator, error) {
	acc := newAccumulator(in.Count)
	if err := e.Validate(in); err != nil {
		return acc, err
	}
	if sink == nil {
		sink = Discard
	}

	var limiter *rate.Limiter
	if e.cfg.Throttle > 0 {
		limiter = rate.NewLimiter(rate.Every(e.cfg.Throttle), 1)
		limiter.Allow()
	}

	log := logging.Ctx(ctx)

	for i := 0; i < in.Count; i++ {
		if err := ctx.Err(); err != nil {
			return acc, err
		}

		start := time.Now()
		predicted, err := in.Classifier.Predict(ctx, in.Features[i])
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return acc, ctxErr
			}
			return acc, &models.ClassificationError{Index: i + 1, Err: err}
		}

		outcome := models.DeriveOutcome(predicted, e.cfg.BenignLabel)
		metrics.RecordPacket(string(outcome), time.Since(start))

		rec := models.PacketRecord{
			Index:         i + 1,
			SourceIP:      in.Identity.NextSourceAddress(),
			DestinationIP: e.cfg.Destination,
			Prediction:    predicted,
			TrueLabel:     in.Dataset.Labels[i],
			Status:        outcome,
		}
		acc.add(rec)

		log.Trace().
			Int("packet", rec.Index).
			Str("prediction", rec.Prediction).
			Str("true_label", rec.TrueLabel).
			Str("status", string(rec.Status)).
			Msg("Packet classified")

		if err := sink.OnRecord(ctx, rec, acc.Snapshot(e.cfg.RecentRecords)); err != nil {
			return acc, fmt.Errorf("sink rejected packet %d: %w", rec.Index, err)
		}

		if limiter != nil && i < in.Count-1 {
			if err := limiter.Wait(ctx); err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return acc, ctxErr
				}
				// The limiter refuses waits that would overrun the deadline.
				return acc, errors.Join(context.DeadlineExceeded, err)
			}
		}
	}

	return acc, nil
}
