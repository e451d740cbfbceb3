// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package classifier

import (
	"context"
	"fmt"
)

// Linear is a linear decision function. With two classes Coef holds a single
// row and a positive score selects Classes[1]; otherwise the class with the
// highest score wins.
type Linear struct {
	Type      string      `json:"type"`
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// NumFeatures returns the coefficient width.
func (l *Linear) NumFeatures() int {
	return len(l.Coef[0])
}

// Predict scores row against every coefficient vector.
func (l *Linear) Predict(_ context.Context, row []float64) (string, error) {
	if err := checkWidth(row, l.NumFeatures()); err != nil {
		return "", err
	}

	scores := make([]float64, len(l.Coef))
	for k, w := range l.Coef {
		s := l.Intercept[k]
		for j, x := range row {
			s += w[j] * x
		}
		scores[k] = s
	}

	if len(l.Classes) == 2 && len(scores) == 1 {
		if scores[0] > 0 {
			return l.Classes[1], nil
		}
		return l.Classes[0], nil
	}
	return l.Classes[argmax(scores)], nil
}

func (l *Linear) validate() error {
	if len(l.Classes) < 2 {
		return fmt.Errorf("%s: need at least 2 classes, got %d", l.Type, len(l.Classes))
	}
	rows := len(l.Classes)
	if rows == 2 {
		rows = 1
	}
	if len(l.Coef) != rows || len(l.Intercept) != rows {
		return fmt.Errorf("%s: %d classes need %d coefficient rows and intercepts, got %d/%d",
			l.Type, len(l.Classes), rows, len(l.Coef), len(l.Intercept))
	}
	width := len(l.Coef[0])
	if width == 0 {
		return fmt.Errorf("%s: empty coefficient row", l.Type)
	}
	for k, w := range l.Coef {
		if len(w) != width {
			return fmt.Errorf("%s: coefficient row %d has %d entries, want %d", l.Type, k, len(w), width)
		}
	}
	return nil
}
