// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package models

import (
	"math/rand/v2"
	"time"
)

// DefaultShuffleSeed is the fixed permutation seed used to decorrelate
// simulation order from file order.
const DefaultShuffleSeed uint64 = 42

// DefaultLabelColumn is the ground-truth column every dataset must carry.
const DefaultLabelColumn = "Label"

// Dataset is a cleaned, labeled feature table. Rows[i] is a numeric vector
// whose positions are named by Features; Labels[i] is its ground truth.
// A Dataset is immutable once loaded and safe for concurrent reads.
type Dataset struct {
	Features []string
	Rows     [][]float64
	Labels   []string
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Width returns the number of feature columns.
func (d *Dataset) Width() int {
	if d == nil {
		return 0
	}
	return len(d.Features)
}

// Shuffle returns a new Dataset whose rows are a seeded permutation of d.
// The receiver is not modified and the row slices are shared.
func (d *Dataset) Shuffle(seed uint64) *Dataset {
	n := d.Len()
	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)

	out := &Dataset{
		Features: d.Features,
		Rows:     make([][]float64, n),
		Labels:   make([]string, n),
	}
	for i, j := range perm {
		out.Rows[i] = d.Rows[j]
		out.Labels[i] = d.Labels[j]
	}
	return out
}

// LabelCounts returns the number of rows per ground-truth label.
func (d *Dataset) LabelCounts() map[string]int {
	counts := make(map[string]int)
	if d == nil {
		return counts
	}
	for _, l := range d.Labels {
		counts[l]++
	}
	return counts
}

// DatasetInfo describes a registered dataset without its rows.
type DatasetInfo struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Source      string         `json:"source"` // "file" or "upload"
	Rows        int            `json:"rows"`
	Features    int            `json:"features"`
	LabelCounts map[string]int `json:"label_counts"`
	SizeBytes   int64          `json:"size_bytes,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`

	PacketRange PacketRange `json:"packet_range"`
}

// PacketRange is the selectable packet-count interval for a dataset.
type PacketRange struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// NewPacketRange clamps the configured bounds to the dataset size:
// [min(lower, rows), min(upper, rows)], default clamped into that interval.
func NewPacketRange(rows, lower, upper, def int) PacketRange {
	r := PacketRange{Min: min(lower, rows), Max: min(upper, rows)}
	r.Default = r.Clamp(def)
	return r
}

// Clamp forces n into [Min, Max].
func (r PacketRange) Clamp(n int) int {
	return max(r.Min, min(n, r.Max))
}
