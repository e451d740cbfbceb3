// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package classifier

import (
	"context"
	"fmt"
)

// leaf marks a node without children.
const leaf = -1

// Tree is a binary decision tree in parallel-array form. Node i routes a row
// left when row[Feature[i]] <= Threshold[i]; leaves carry per-class weights
// in Value[i].
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest averages the normalized leaf distributions of its trees and
// predicts the class with the highest mean probability.
type Forest struct {
	Type       string   `json:"type"`
	Classes    []string `json:"classes"`
	NFeatures  int      `json:"n_features"`
	Estimators []Tree   `json:"estimators"`
}

// NumFeatures returns the input width the forest was trained on.
func (f *Forest) NumFeatures() int {
	return f.NFeatures
}

// Predict evaluates every tree on row.
func (f *Forest) Predict(_ context.Context, row []float64) (string, error) {
	if err := checkWidth(row, f.NFeatures); err != nil {
		return "", err
	}

	proba := make([]float64, len(f.Classes))
	for t := range f.Estimators {
		dist, err := f.Estimators[t].leafValue(row)
		if err != nil {
			return "", fmt.Errorf("tree %d: %w", t, err)
		}
		var total float64
		for _, w := range dist {
			total += w
		}
		if total == 0 {
			continue
		}
		for c, w := range dist {
			proba[c] += w / total
		}
	}

	return f.Classes[argmax(proba)], nil
}

func (t *Tree) leafValue(row []float64) ([]float64, error) {
	node := 0
	// A well-formed tree reaches a leaf in fewer steps than it has nodes.
	for steps := 0; steps <= len(t.ChildrenLeft); steps++ {
		if t.ChildrenLeft[node] == leaf {
			return t.Value[node], nil
		}
		feat := t.Feature[node]
		if feat < 0 || feat >= len(row) {
			return nil, fmt.Errorf("node %d splits on feature %d of %d", node, feat, len(row))
		}
		if row[feat] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return nil, fmt.Errorf("tree does not terminate")
}

func (f *Forest) validate() error {
	if len(f.Classes) < 2 {
		return fmt.Errorf("%s: need at least 2 classes, got %d", f.Type, len(f.Classes))
	}
	if len(f.Estimators) == 0 {
		return fmt.Errorf("%s: no estimators", f.Type)
	}
	for i := range f.Estimators {
		if err := f.Estimators[i].validate(len(f.Classes)); err != nil {
			return fmt.Errorf("%s: estimator %d: %w", f.Type, i, err)
		}
	}
	return nil
}

func (t *Tree) validate(classes int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays have different lengths")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			if len(t.Value[i]) != classes {
				return fmt.Errorf("leaf %d has %d class weights, want %d", i, len(t.Value[i]), classes)
			}
			continue
		}
		if l <= 0 || l >= n || r <= 0 || r >= n {
			return fmt.Errorf("node %d has out-of-range children %d/%d", i, l, r)
		}
	}
	return nil
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}
