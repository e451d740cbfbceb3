// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package classifier adapts pre-trained traffic classifiers to a single
// Predict contract.
//
// Local models are exported from the training environment as JSON and
// evaluated in-process:
//
//   - "random_forest" / "decision_tree": tree ensembles in the
//     children_left/children_right/feature/threshold/value array layout
//   - "logistic_regression" / "linear_svc": linear decision functions
//
// A Remote classifier forwards rows to an HTTP inference service behind a
// circuit breaker. Local models are immutable and safe for concurrent use.
package classifier

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Classifier maps one scaled feature row to a label from the dataset's
// label vocabulary.
type Classifier interface {
	Predict(ctx context.Context, row []float64) (string, error)
}

// FeatureCounter is implemented by classifiers that know their input width.
type FeatureCounter interface {
	NumFeatures() int
}

// Func adapts a plain function to the Classifier interface.
type Func func(ctx context.Context, row []float64) (string, error)

// Predict calls f.
func (f Func) Predict(ctx context.Context, row []float64) (string, error) {
	return f(ctx, row)
}

// Model types understood by Load.
const (
	TypeRandomForest       = "random_forest"
	TypeDecisionTree       = "decision_tree"
	TypeLogisticRegression = "logistic_regression"
	TypeLinearSVC          = "linear_svc"
)

// Load reads a JSON model file and returns the matching classifier.
func Load(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a JSON model, dispatching on its "type" field.
func Parse(data []byte) (Classifier, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	switch head.Type {
	case TypeRandomForest, TypeDecisionTree:
		var f Forest
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		if err := f.validate(); err != nil {
			return nil, err
		}
		return &f, nil
	case TypeLogisticRegression, TypeLinearSVC:
		var l Linear
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("decode %s: %w", head.Type, err)
		}
		if err := l.validate(); err != nil {
			return nil, err
		}
		return &l, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", head.Type)
	}
}

func checkWidth(row []float64, want int) error {
	if want > 0 && len(row) != want {
		return fmt.Errorf("row has %d features, model expects %d", len(row), want)
	}
	return nil
}
