// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/packetsim/internal/models"
)

// LoadDuckDB reads a CSV file through an in-memory DuckDB instance.
// Columns are read as text so cleaning matches ReadCSV exactly.
func LoadDuckDB(ctx context.Context, path string, opts Options) (*models.Dataset, error) {
	db, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(
		"SELECT * FROM read_csv_auto(%s, header = true, all_varchar = true)",
		quoteLiteral(path),
	)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", models.ErrConfiguration, path, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	b, err := newBuilder(header, opts)
	if err != nil {
		return nil, err
	}

	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}
	record := make([]string, len(header))

	// Line numbers are 1-based and count the header.
	line := 1
	for rows.Next() {
		line++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", line, err)
		}
		for i, c := range cells {
			record[i] = ""
			if c.Valid {
				record[i] = c.String
			}
		}
		if err := b.add(line, record); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return b.finish()
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
