// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stores

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"

	"github.com/open2b/sharptag/resolve"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Querier is implemented by *pgx.Conn and *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Query runs the query sql with q and collects the returned rows with
// CollectRows.
func Query(ctx context.Context, q Querier, sql string, args ...any) ([]map[string]string, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("stores: querying rows: %w", err)
	}
	return CollectRows(rows)
}

// CollectRows reads all the rows and returns them as maps from the column
// names, normalized with resolve.SQLName, to the values formatted as
// strings. NULL values are empty strings. It closes rows.
func CollectRows(rows pgx.Rows) ([]map[string]string, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("stores: collecting rows: %w", err)
	}
	out := make([]map[string]string, len(maps))
	for i, m := range maps {
		row := make(map[string]string, len(m))
		for column, v := range m {
			row[resolve.SQLName(column)] = formatValue(v)
		}
		out[i] = row
	}
	return out, nil
}

// formatValue formats a value decoded by pgx.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case [16]byte:
		return uuid.UUID(v).String()
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return ""
		}
		return formatValue(dv)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
