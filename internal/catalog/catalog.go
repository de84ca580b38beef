// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

// Package catalog reads the scraped restaurant CSV through DuckDB and turns
// rows into vector store documents.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/platepicker/internal/logging"
	"github.com/tomtom215/platepicker/internal/models"
)

// trailingID matches the numeric tail of a Foody detail URL.
var trailingID = regexp.MustCompile(`(\d+)/?$`)

// Load reads every row of the CSV at path. All columns are read as text and
// missing cells become "". Rows without a restaurant_id get one from the
// numeric tail of detail_url, else from the 1-based row number.
func Load(ctx context.Context, path string) ([]models.Restaurant, error) {
	conn, err := sql.Open("duckdb", ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer conn.Close()

	query := fmt.Sprintf("SELECT * FROM read_csv_auto(%s, header=true, all_varchar=true)", quoteLiteral(path))
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read csv columns: %w", err)
	}

	var out []models.Restaurant
	cells := make([]sql.NullString, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan csv row %d: %w", len(out)+1, err)
		}
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			row[strings.ToLower(strings.TrimSpace(c))] = strings.TrimSpace(cells[i].String)
		}
		r := models.RestaurantFromMetadata(row)
		if r.ID == "" {
			r.ID = deriveID(r.DetailURL, len(out)+1)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate csv rows: %w", err)
	}

	logging.Debug().Str("path", path).Int("rows", len(out)).Msg("Catalog loaded")
	return out, nil
}

// LoadIDs returns the first limit unique non-empty restaurant ids in file
// order. limit <= 0 returns all of them.
func LoadIDs(ctx context.Context, path string, limit int) ([]string, error) {
	rs, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(rs))
	ids := make([]string, 0, len(rs))
	for i := range rs {
		id := rs[i].ID
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if limit > 0 && len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func deriveID(detailURL string, row int) string {
	if m := trailingID.FindStringSubmatch(strings.TrimSpace(detailURL)); m != nil {
		return m[1]
	}
	return strconv.Itoa(row)
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
