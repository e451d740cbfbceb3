// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package simulation

import (
	"github.com/tomtom215/packetsim/internal/models"
)

// Accumulator holds the running counts and ordered log of one run.
// It is owned by the goroutine executing the run; readers use Snapshot.
type Accumulator struct {
	Total   int
	Normal  int
	Attack  int
	Records []models.PacketRecord
}

func newAccumulator(total int) *Accumulator {
	total = max(total, 0)
	return &Accumulator{
		Total:   total,
		Records: make([]models.PacketRecord, 0, total),
	}
}

func (a *Accumulator) add(rec models.PacketRecord) {
	switch rec.Status {
	case models.OutcomeNormal:
		a.Normal++
	default:
		a.Attack++
	}
	a.Records = append(a.Records, rec)
}

// Processed returns the number of records produced so far.
func (a *Accumulator) Processed() int {
	return len(a.Records)
}

// Snapshot returns a value copy of the counts plus the last n records.
func (a *Accumulator) Snapshot(n int) models.Snapshot {
	s := models.Snapshot{
		Processed: len(a.Records),
		Total:     a.Total,
		Normal:    a.Normal,
		Attack:    a.Attack,
	}
	if a.Total > 0 {
		s.Progress = float64(s.Processed) / float64(a.Total)
	}

	if n > 0 {
		start := max(0, len(a.Records)-n)
		s.Recent = make([]models.PacketRecord, len(a.Records)-start)
		copy(s.Recent, a.Records[start:])
	}
	return s
}
