// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package export renders a finished (or partial) run log as a CSV file and
// as a Normal/Attack bar chart.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/tomtom215/packetsim/internal/models"
)

// FileName is the default name of an exported run log.
const FileName = "simulation_log.csv"

// ContentType is the MIME type of an exported run log.
const ContentType = "text/csv; charset=utf-8"

// Header is the exported column order.
var Header = []string{"Packet #", "Source IP", "Destination IP", "Prediction", "True Label", "Status"}

// Write encodes records as CSV, one row per record in the given order.
func Write(w io.Writer, records []models.PacketRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(Header))
	for _, rec := range records {
		row[0] = strconv.Itoa(rec.Index)
		row[1] = rec.SourceIP
		row[2] = rec.DestinationIP
		row[3] = rec.Prediction
		row[4] = rec.TrueLabel
		row[5] = string(rec.Status)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write packet %d: %w", rec.Index, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Parse decodes a run log produced by Write.
func Parse(r io.Reader) ([]models.PacketRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty run log")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, name := range Header {
		if head[i] != name {
			return nil, fmt.Errorf("column %d is %q, want %q", i+1, head[i], name)
		}
	}

	var out []models.PacketRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		idx, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid packet number %q", line, row[0])
		}
		status, err := models.ParseOutcome(row[5])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, models.PacketRecord{
			Index:         idx,
			SourceIP:      row[1],
			DestinationIP: row[2],
			Prediction:    row[3],
			TrueLabel:     row[4],
			Status:        status,
		})
	}
}
