// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package simulation

import (
	"context"

	"github.com/tomtom215/packetsim/internal/models"
)

// Sink consumes the record stream of a run. OnRecord is called synchronously
// after every record, before the engine moves on; returning an error aborts
// the run.
type Sink interface {
	OnRecord(ctx context.Context, rec models.PacketRecord, snap models.Snapshot) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, rec models.PacketRecord, snap models.Snapshot) error

// OnRecord calls f.
func (f SinkFunc) OnRecord(ctx context.Context, rec models.PacketRecord, snap models.Snapshot) error {
	return f(ctx, rec, snap)
}

// Tee forwards every record to each sink in order and stops at the first error.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, rec models.PacketRecord, snap models.Snapshot) error {
		for _, s := range sinks {
			if s == nil {
				continue
			}
			if err := s.OnRecord(ctx, rec, snap); err != nil {
				return err
			}
		}
		return nil
	})
}

// Discard is a sink that ignores every record.
var Discard Sink = SinkFunc(func(context.Context, models.PacketRecord, models.Snapshot) error { return nil })
