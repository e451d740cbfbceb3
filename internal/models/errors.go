// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package models

import (
	"context"
	"errors"
	"fmt"
)

// Simulation error taxonomy. All are terminal for the run that raised them.
var (
	// ErrConfiguration is returned for malformed input such as a dataset
	// without a label column. The run never starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrSchemaMismatch is returned when the feature schema differs from the
	// one the preprocessor or classifier was fitted on.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrInsufficientData is returned when more packets are requested than
	// the dataset holds.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrClassification matches every *ClassificationError.
	ErrClassification = errors.New("classification error")
)

// ClassificationError reports a classifier failure on a specific packet.
type ClassificationError struct {
	Index int // 1-based packet index
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed at packet %d: %v", e.Index, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *ClassificationError) Unwrap() []error {
	return []error{ErrClassification, e.Err}
}

// ErrorKind is a stable machine-readable error category.
type ErrorKind string

const (
	KindNone             ErrorKind = ""
	KindConfiguration    ErrorKind = "configuration_error"
	KindSchemaMismatch   ErrorKind = "schema_mismatch"
	KindInsufficientData ErrorKind = "insufficient_data"
	KindClassification   ErrorKind = "classification_error"
	KindCanceled         ErrorKind = "canceled"
	KindInternal         ErrorKind = "internal_error"
)

// KindOf maps err onto the taxonomy.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, ErrInsufficientData):
		return KindInsufficientData
	case errors.Is(err, ErrClassification):
		return KindClassification
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}
