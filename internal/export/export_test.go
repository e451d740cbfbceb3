// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package export

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/tomtom215/packetsim/internal/models"
)

func sampleRecords(n int) []models.PacketRecord {
	out := make([]models.PacketRecord, n)
	for i := range out {
		label, status := "BENIGN", models.OutcomeNormal
		if i%5 == 4 {
			label, status = "DDoS", models.OutcomeAttack
		}
		out[i] = models.PacketRecord{
			Index:         i + 1,
			SourceIP:      fmt.Sprintf("10.%d.%d.%d", i%254+1, (i*7)%254+1, (i*13)%254+1),
			DestinationIP: models.DefaultDestinationAddress,
			Prediction:    label,
			TrueLabel:     label,
			Status:        status,
		}
	}
	return out
}

func TestWriteParse_RoundTrip(t *testing.T) {
	t.Parallel()

	records := sampleRecords(50)
	// A label with a delimiter must survive quoting.
	records[3].TrueLabel = "DoS, slowloris"

	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Packet #,Source IP,Destination IP,Prediction,True Label,Status" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 51 {
		t.Errorf("lines = %d, want 51", len(lines))
	}

	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("parsed %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d = %+v, want %+v", i+1, got[i], records[i])
		}
		if got[i].Index != i+1 {
			t.Errorf("record %d has index %d", i+1, got[i].Index)
		}
	}
}

func TestWrite_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("parsed %d records from header-only log", len(got))
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty run log"},
		{"wrong header", "Packet,Source IP,Destination IP,Prediction,True Label,Status\n", "column 1"},
		{"bad index", "Packet #,Source IP,Destination IP,Prediction,True Label,Status\nx,1.1.1.1,192.168.1.1,BENIGN,BENIGN,Normal\n", "invalid packet number"},
		{"bad status", "Packet #,Source IP,Destination IP,Prediction,True Label,Status\n1,1.1.1.1,192.168.1.1,BENIGN,BENIGN,Maybe\n", "unknown packet status"},
		{"short row", "Packet #,Source IP,Destination IP,Prediction,True Label,Status\n1,1.1.1.1\n", "wrong number of fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteChartPNG(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		normal, attack int
	}{
		{"mixed", 40, 10},
		{"all benign", 10, 0},
		{"empty run", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteChartPNG(&buf, tt.normal, tt.attack, "Packet Classification"); err != nil {
				t.Fatalf("WriteChartPNG() error = %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
				t.Errorf("empty image bounds %v", b)
			}
		})
	}

	if _, err := BarChart(-1, 0, ""); err == nil {
		t.Error("expected error for negative count")
	}
}
