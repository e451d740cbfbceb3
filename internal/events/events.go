// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package events carries simulation lifecycle and packet events between the
// run manager and live consumers over an in-process Watermill pub/sub.
package events

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/packetsim/internal/models"
)

// Topic is the single topic every simulation event is published on.
const Topic = "simulation.events"

// Type identifies the kind of event.
type Type string

const (
	TypeRunStarted  Type = "run_started"
	TypePacket      Type = "packet"
	TypeRunFinished Type = "run_finished"
)

// Event is the envelope published on Topic. Exactly one of Record (packet
// events) or Run (lifecycle events) is set; packet events also carry the
// snapshot taken right after the record.
type Event struct {
	EventID   string    `json:"event_id"`
	Type      Type      `json:"type"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`

	Record   *models.PacketRecord `json:"record,omitempty"`
	Snapshot *models.Snapshot     `json:"snapshot,omitempty"`
	Run      *models.RunInfo      `json:"run,omitempty"`
}

func newEvent(t Type, runID string) *Event {
	return &Event{
		EventID:   uuid.New().String(),
		Type:      t,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
	}
}

// RunStarted builds a run_started event.
func RunStarted(info models.RunInfo) *Event {
	e := newEvent(TypeRunStarted, info.ID)
	e.Run = &info
	return e
}

// Packet builds a packet event.
func Packet(runID string, rec models.PacketRecord, snap models.Snapshot) *Event {
	e := newEvent(TypePacket, runID)
	e.Record = &rec
	e.Snapshot = &snap
	return e
}

// RunFinished builds a run_finished event.
func RunFinished(info models.RunInfo) *Event {
	e := newEvent(TypeRunFinished, info.ID)
	e.Run = &info
	return e
}

// Marshal encodes an event.
func Marshal(e *Event) ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal decodes an event.
func Unmarshal(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
