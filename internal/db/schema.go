package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// ExpectedTables lists the tables and columns the climate routes read. The
// record types in the climate module mirror these columns.
var ExpectedTables = map[string][]string{
	"measurement": {"id", "station", "date", "prcp", "tobs"},
	"station":     {"id", "station", "name", "latitude", "longitude", "elevation"},
}

// VerifySchema fails when the store lacks any expected table or column.
// It runs once at startup.
func VerifySchema(ctx context.Context, db *sql.DB) error {
	for table, want := range ExpectedTables {
		have, err := tableColumns(ctx, db, table)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", table, err)
		}
		if len(have) == 0 {
			return fmt.Errorf("table %s not found", table)
		}
		var missing []string
		for _, col := range want {
			if !have[col] {
				missing = append(missing, col)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("table %s missing columns: %s", table, strings.Join(missing, ", "))
		}
		slog.Debug("schema verified", "table", table, "columns", len(have))
	}
	return nil
}

func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close table_info rows", "table", table, "error", err)
		}
	}()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = true
	}
	return out, rows.Err()
}
