// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package preprocess applies a previously fitted feature scaling transform.
//
// Scalers are exported from the training environment as JSON:
//
//	{
//	  "type": "standard",
//	  "feature_names": ["Flow Duration", "Total Fwd Packets", ...],
//	  "mean": [...],
//	  "scale": [...]
//	}
//
// "standard" computes (x - mean) / scale; "minmax" computes x*scale + min.
// A Scaler is immutable after loading and safe for concurrent use.
package preprocess

import (
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-json"

	"github.com/tomtom215/packetsim/internal/models"
)

// Scaler kinds.
const (
	KindStandard = "standard"
	KindMinMax   = "minmax"
)

// Scaler is a fitted per-feature affine transform.
type Scaler struct {
	Kind         string    `json:"type"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Mean         []float64 `json:"mean,omitempty"`
	Min          []float64 `json:"min,omitempty"`
	Scale        []float64 `json:"scale"`
}

// Load reads and validates a scaler file.
func Load(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON scaler.
func Parse(data []byte) (*Scaler, error) {
	var s Scaler
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scaler: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scaler) validate() error {
	n := len(s.Scale)
	if n == 0 {
		return fmt.Errorf("scaler has no features")
	}
	switch s.Kind {
	case KindStandard:
		if len(s.Mean) != n {
			return fmt.Errorf("standard scaler: %d means for %d scales", len(s.Mean), n)
		}
	case KindMinMax:
		if len(s.Min) != n {
			return fmt.Errorf("minmax scaler: %d mins for %d scales", len(s.Min), n)
		}
	default:
		return fmt.Errorf("unsupported scaler type %q", s.Kind)
	}
	if s.FeatureNames != nil && len(s.FeatureNames) != n {
		return fmt.Errorf("scaler: %d feature names for %d scales", len(s.FeatureNames), n)
	}
	return nil
}

// NumFeatures returns the fitted feature width.
func (s *Scaler) NumFeatures() int {
	return len(s.Scale)
}

// CheckSchema verifies that features match the fitted schema in name and order.
// Scalers exported without feature names are checked by width only.
func (s *Scaler) CheckSchema(features []string) error {
	if len(features) != s.NumFeatures() {
		return fmt.Errorf("%w: dataset has %d features, scaler was fitted on %d",
			models.ErrSchemaMismatch, len(features), s.NumFeatures())
	}
	if s.FeatureNames == nil || slices.Equal(features, s.FeatureNames) {
		return nil
	}
	for i := range features {
		if features[i] != s.FeatureNames[i] {
			return fmt.Errorf("%w: feature %d is %q, scaler expects %q",
				models.ErrSchemaMismatch, i, features[i], s.FeatureNames[i])
		}
	}
	return nil
}

// Transform scales every dataset row. The dataset is not modified.
func (s *Scaler) Transform(ds *models.Dataset) ([][]float64, error) {
	if err := s.CheckSchema(ds.Features); err != nil {
		return nil, err
	}

	out := make([][]float64, ds.Len())
	for i, row := range ds.Rows {
		if len(row) != s.NumFeatures() {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d",
				models.ErrSchemaMismatch, i, len(row), s.NumFeatures())
		}
		out[i] = s.TransformRow(row)
	}
	return out, nil
}

// TransformRow scales a single row of the fitted width.
func (s *Scaler) TransformRow(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for j, x := range row {
		scale := s.Scale[j]
		switch s.Kind {
		case KindMinMax:
			scaled[j] = x*scale + s.Min[j]
		default:
			if scale == 0 {
				scale = 1
			}
			scaled[j] = (x - s.Mean[j]) / scale
		}
	}
	return scaled
}
