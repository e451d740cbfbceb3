// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

// Package dataset loads labeled traffic tables for simulation.
//
// Two loaders produce the same cleaned models.Dataset: a streaming CSV reader
// used for uploads and small files, and a DuckDB loader that delegates CSV
// sniffing to read_csv_auto for large files on disk. Both strip header
// whitespace, drop every row with a missing value, and refuse tables that
// lack the label column.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/models"
)

// Loader names accepted by LoadFile.
const (
	LoaderCSV    = "csv"
	LoaderDuckDB = "duckdb"
)

// Options controls dataset cleaning.
type Options struct {
	// LabelColumn is the ground-truth column name, matched after trimming.
	// Default: "Label"
	LabelColumn string
}

func (o Options) labelColumn() string {
	if o.LabelColumn == "" {
		return models.DefaultLabelColumn
	}
	return o.LabelColumn
}

// missingMarkers are cell values treated as absent, matching the usual
// dataframe NA vocabulary.
var missingMarkers = map[string]struct{}{
	"":        {},
	"NA":      {},
	"N/A":     {},
	"n/a":     {},
	"#N/A":    {},
	"#NA":     {},
	"NaN":     {},
	"nan":     {},
	"-NaN":    {},
	"-nan":    {},
	"NULL":    {},
	"null":    {},
	"None":    {},
	"<NA>":    {},
	"1.#IND":  {},
	"1.#QNAN": {},
}

func isMissing(cell string) bool {
	_, ok := missingMarkers[cell]
	return ok
}

// LoadFile loads the dataset at path with the named loader.
func LoadFile(ctx context.Context, path, loader string, opts Options) (*models.Dataset, error) {
	switch loader {
	case "", LoaderCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f, opts)
	case LoaderDuckDB:
		return LoadDuckDB(ctx, path, opts)
	default:
		return nil, fmt.Errorf("%w: unknown dataset loader %q", models.ErrConfiguration, loader)
	}
}

// ReadCSV parses and cleans a CSV table whose first record is the header.
func ReadCSV(r io.Reader, opts Options) (*models.Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: dataset is empty", models.ErrConfiguration)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", models.ErrConfiguration, err)
	}

	b, err := newBuilder(header, opts)
	if err != nil {
		return nil, err
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrConfiguration, err)
		}
		line, _ := cr.FieldPos(0)
		if err := b.add(line, record); err != nil {
			return nil, err
		}
	}

	return b.finish()
}

// builder assembles a cleaned Dataset row by row.
type builder struct {
	labelIdx   int
	featureIdx []int
	ds         *models.Dataset
	dropped    int
}

func newBuilder(header []string, opts Options) (*builder, error) {
	label := opts.labelColumn()
	b := &builder{labelIdx: -1, ds: &models.Dataset{}}

	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == label && b.labelIdx < 0 {
			b.labelIdx = i
			continue
		}
		b.featureIdx = append(b.featureIdx, i)
		b.ds.Features = append(b.ds.Features, name)
	}

	if b.labelIdx < 0 {
		return nil, fmt.Errorf("%w: dataset must contain a %q column", models.ErrConfiguration, label)
	}
	if len(b.featureIdx) == 0 {
		return nil, fmt.Errorf("%w: dataset has no feature columns", models.ErrConfiguration)
	}
	return b, nil
}

func (b *builder) add(line int, record []string) error {
	for _, cell := range record {
		if isMissing(strings.TrimSpace(cell)) {
			b.dropped++
			return nil
		}
	}

	row := make([]float64, len(b.featureIdx))
	for j, idx := range b.featureIdx {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
		if err != nil {
			return fmt.Errorf("%w: line %d column %q: %q is not numeric",
				models.ErrConfiguration, line, b.ds.Features[j], record[idx])
		}
		row[j] = v
	}

	b.ds.Rows = append(b.ds.Rows, row)
	b.ds.Labels = append(b.ds.Labels, strings.TrimSpace(record[b.labelIdx]))
	return nil
}

func (b *builder) finish() (*models.Dataset, error) {
	if b.ds.Len() == 0 {
		return nil, fmt.Errorf("%w: dataset has no complete rows (%d dropped)", models.ErrInsufficientData, b.dropped)
	}
	logging.Debug().
		Int("rows", b.ds.Len()).
		Int("features", b.ds.Width()).
		Int("dropped", b.dropped).
		Msg("Dataset cleaned")
	return b.ds, nil
}
