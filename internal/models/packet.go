// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBenignLabel is the prediction that maps to a Normal outcome.
const DefaultBenignLabel = "BENIGN"

// DefaultDestinationAddress is the simulated server every packet targets.
const DefaultDestinationAddress = "192.168.1.1"

// Outcome is the binary verdict derived from a prediction.
type Outcome string

const (
	OutcomeNormal Outcome = "Normal"
	OutcomeAttack Outcome = "Attack"
)

// DeriveOutcome returns OutcomeNormal iff predicted equals benign ignoring case.
// Every other label, whatever attack family it names, is an Attack.
func DeriveOutcome(predicted, benign string) Outcome {
	if strings.EqualFold(predicted, benign) {
		return OutcomeNormal
	}
	return OutcomeAttack
}

// ParseOutcome converts an exported status string back into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch {
	case strings.EqualFold(s, string(OutcomeNormal)):
		return OutcomeNormal, nil
	case strings.EqualFold(s, string(OutcomeAttack)):
		return OutcomeAttack, nil
	default:
		return "", fmt.Errorf("unknown packet status %q", s)
	}
}

// PacketRecord is one simulated classification event. Index is 1-based and
// strictly increasing within a run.
type PacketRecord struct {
	Index         int     `json:"index"`
	SourceIP      string  `json:"source_ip"`
	DestinationIP string  `json:"destination_ip"`
	Prediction    string  `json:"prediction"`
	TrueLabel     string  `json:"true_label"`
	Status        Outcome `json:"status"`
}

// Snapshot is a copy of a run accumulator after a record was produced.
type Snapshot struct {
	Processed int            `json:"processed"`
	Total     int            `json:"total"`
	Normal    int            `json:"normal"`
	Attack    int            `json:"attack"`
	Progress  float64        `json:"progress"`
	Recent    []PacketRecord `json:"recent"`
}

// RunStatus is the lifecycle state of a simulation run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCanceled  RunStatus = "canceled"
)

// Terminal reports whether no further records will be produced.
func (s RunStatus) Terminal() bool {
	return s != RunStatusRunning
}

// RunInfo is the externally visible state of a run.
type RunInfo struct {
	ID          string     `json:"id"`
	DatasetID   string     `json:"dataset_id"`
	Status      RunStatus  `json:"status"`
	PacketCount int        `json:"packet_count"`
	Snapshot    Snapshot   `json:"snapshot"`
	Summary     string     `json:"summary,omitempty"`
	ErrorKind   ErrorKind  `json:"error_kind,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// CompletionSummary is the closing message of a completed run.
func CompletionSummary(normal, attack int) string {
	return fmt.Sprintf("Simulation completed: %d normal packets, %d attack packets detected.", normal, attack)
}
