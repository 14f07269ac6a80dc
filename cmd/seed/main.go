// Command seed builds a climate database file from the measurement and
// station CSV exports.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	_ "github.com/mattn/go-sqlite3"

	"climate-server/internal/seed"
)

func main() {
	dbPath := flag.String("db", "Resources/hawaii.sqlite", "database file to create or extend")
	measurementsPath := flag.String("measurements", "Resources/hawaii_measurements.csv", "measurements CSV (station,date,prcp,tobs)")
	stationsPath := flag.String("stations", "Resources/hawaii_stations.csv", "stations CSV (station,name,latitude,longitude,elevation)")
	flag.Parse()

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.Kitchen})))

	if err := run(context.Background(), filepath.Clean(*dbPath), *measurementsPath, *stationsPath); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dbPath, measurementsPath, stationsPath string) error {
	stations, err := readFile(stationsPath, seed.ReadStations)
	if err != nil {
		return err
	}
	measurements, err := readFile(measurementsPath, seed.ReadMeasurements)
	if err != nil {
		return err
	}

	conn, err := open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	if err := seed.ApplySchema(ctx, conn); err != nil {
		return err
	}
	if err := seed.Load(ctx, conn, stations, measurements); err != nil {
		return err
	}

	slog.Info("database seeded",
		"db", dbPath,
		"stations", len(stations),
		"measurements", len(measurements),
	)
	return nil
}

func readFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", buildDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func buildDSN(dbPath string) string {
	// rollback journal: the server opens the file with mode=ro
	params := []string{
		"_busy_timeout=5000",
		"_journal_mode=DELETE",
	}

	if strings.HasPrefix(dbPath, "file:") {
		sep := "?"
		if strings.Contains(dbPath, "?") {
			sep = "&"
		}
		return dbPath + sep + strings.Join(params, "&")
	}

	return fmt.Sprintf("file:%s?%s", dbPath, strings.Join(params, "&"))
}
