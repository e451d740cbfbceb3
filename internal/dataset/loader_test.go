// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package dataset

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

const trafficCSV = ` Flow Duration , Total Fwd Packets,Flow Bytes/s, Label
100,2,1.5,BENIGN
200,4,NaN,DDoS
300,6,3.5, DDoS
400,,4.5,BENIGN
500,10,Infinity,BENIGN
600,12,6.5,
`

func TestReadCSV(t *testing.T) {
	t.Parallel()

	ds, err := ReadCSV(strings.NewReader(trafficCSV), Options{})
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	wantFeatures := []string{"Flow Duration", "Total Fwd Packets", "Flow Bytes/s"}
	if !reflect.DeepEqual(ds.Features, wantFeatures) {
		t.Errorf("Features = %q, want %q", ds.Features, wantFeatures)
	}

	// Rows with NaN, an empty cell, or an empty label are dropped.
	wantLabels := []string{"BENIGN", "DDoS", "BENIGN"}
	if !reflect.DeepEqual(ds.Labels, wantLabels) {
		t.Errorf("Labels = %q, want %q", ds.Labels, wantLabels)
	}
	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}
	if ds.Rows[1][0] != 300 || ds.Rows[1][2] != 3.5 {
		t.Errorf("Rows[1] = %v, want [300 6 3.5]", ds.Rows[1])
	}
}

func TestReadCSV_LabelColumnPosition(t *testing.T) {
	t.Parallel()

	input := "Label,a,b\nBENIGN,1,2\nDDoS,3,4\n"
	ds, err := ReadCSV(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if !reflect.DeepEqual(ds.Features, []string{"a", "b"}) {
		t.Errorf("Features = %q", ds.Features)
	}
	if !reflect.DeepEqual(ds.Rows[1], []float64{3, 4}) {
		t.Errorf("Rows[1] = %v", ds.Rows[1])
	}
}

func TestReadCSV_CustomLabelColumn(t *testing.T) {
	t.Parallel()

	input := "a,class\n1,BENIGN\n"
	ds, err := ReadCSV(strings.NewReader(input), Options{LabelColumn: "class"})
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if ds.Labels[0] != "BENIGN" {
		t.Errorf("Labels[0] = %q", ds.Labels[0])
	}
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing label column",
			input:   "a,b\n1,2\n",
			wantErr: models.ErrConfiguration,
			wantMsg: `"Label"`,
		},
		{
			name:    "label only",
			input:   "Label\nBENIGN\n",
			wantErr: models.ErrConfiguration,
			wantMsg: "no feature columns",
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: models.ErrConfiguration,
			wantMsg: "empty",
		},
		{
			name:    "non numeric feature",
			input:   "a,Label\n1,BENIGN\nfast,DDoS\n",
			wantErr: models.ErrConfiguration,
			wantMsg: `line 3 column "a"`,
		},
		{
			name:    "ragged row",
			input:   "a,b,Label\n1,2,BENIGN\n3,DDoS\n",
			wantErr: models.ErrConfiguration,
		},
		{
			name:    "no complete rows",
			input:   "a,Label\n,BENIGN\nNaN,DDoS\n",
			wantErr: models.ErrInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadCSV() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "DDos.csv")
	if err := os.WriteFile(path, []byte(trafficCSV), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ds, err := LoadFile(context.Background(), path, LoaderCSV, Options{})
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}

	if _, err := LoadFile(context.Background(), path, "parquet", Options{}); !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("unknown loader error = %v, want ErrConfiguration", err)
	}
	if _, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), LoaderCSV, Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadDuckDB_MatchesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traffic.csv")
	input := "Flow Duration,Total Fwd Packets,Label\n100,2,BENIGN\n200,,DDoS\n300,6,DDoS\n400,8,BENIGN\n"
	if err := os.WriteFile(path, []byte(input), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	viaDuck, err := LoadFile(context.Background(), path, LoaderDuckDB, Options{})
	if err != nil {
		t.Fatalf("LoadDuckDB() error = %v", err)
	}
	viaCSV, err := ReadCSV(strings.NewReader(input), Options{})
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if !reflect.DeepEqual(viaDuck, viaCSV) {
		t.Errorf("duckdb dataset %+v differs from csv dataset %+v", viaDuck, viaCSV)
	}
}

func TestLoadDuckDB_MissingLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nolabel.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err := LoadDuckDB(context.Background(), path, Options{})
	if !errors.Is(err, models.ErrConfiguration) {
		t.Errorf("LoadDuckDB() error = %v, want ErrConfiguration", err)
	}
}

func TestQuoteLiteral(t *testing.T) {
	t.Parallel()

	if got := quoteLiteral("/data/it's.csv"); got != "'/data/it''s.csv'" {
		t.Errorf("quoteLiteral() = %s", got)
	}
}
