// Package seed builds climate database files for development and tests.
// The API server never calls it; the store it serves is owned elsewhere.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/schema.sql
var schemaSQL string

const dateLayout = "2006-01-02"

// ApplySchema creates the station and measurement tables if they do not exist.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Measurement is one CSV row in the station,date,prcp,tobs layout.
type Measurement struct {
	Station string
	Date    string
	Prcp    *float64
	Tobs    *float64
}

// Station is one CSV row in the station,name,latitude,longitude,elevation layout.
type Station struct {
	Station   string
	Name      string
	Latitude  float64
	Longitude float64
	Elevation float64
}

// ReadMeasurements parses a measurements CSV with a header row. Empty prcp or
// tobs cells become NULL.
func ReadMeasurements(r io.Reader) ([]Measurement, error) {
	records, err := readCSV(r, []string{"station", "date", "prcp", "tobs"})
	if err != nil {
		return nil, err
	}
	out := make([]Measurement, 0, len(records))
	for i, rec := range records {
		line := i + 2
		if _, err := time.Parse(dateLayout, rec[1]); err != nil {
			return nil, fmt.Errorf("line %d: invalid date %q", line, rec[1])
		}
		prcp, err := optionalFloat(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: prcp: %w", line, err)
		}
		tobs, err := optionalFloat(rec[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: tobs: %w", line, err)
		}
		out = append(out, Measurement{Station: rec[0], Date: rec[1], Prcp: prcp, Tobs: tobs})
	}
	return out, nil
}

// ReadStations parses a stations CSV with a header row.
func ReadStations(r io.Reader) ([]Station, error) {
	records, err := readCSV(r, []string{"station", "name", "latitude", "longitude", "elevation"})
	if err != nil {
		return nil, err
	}
	out := make([]Station, 0, len(records))
	for i, rec := range records {
		line := i + 2
		var nums [3]float64
		for j, cell := range rec[2:5] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %d: %w", line, j+3, err)
			}
			nums[j] = v
		}
		out = append(out, Station{
			Station:   rec[0],
			Name:      rec[1],
			Latitude:  nums[0],
			Longitude: nums[1],
			Elevation: nums[2],
		})
	}
	return out, nil
}

// Load inserts stations and measurements in a single transaction.
func Load(ctx context.Context, db *sql.DB, stations []Station, measurements []Measurement) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	for _, s := range stations {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`,
			s.Station, s.Name, s.Latitude, s.Longitude, s.Elevation,
		); err != nil {
			return fmt.Errorf("insert station %s: %w", s.Station, err)
		}
	}
	for _, m := range measurements {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`,
			m.Station, m.Date, nullable(m.Prcp), nullable(m.Tobs),
		); err != nil {
			return fmt.Errorf("insert measurement %s %s: %w", m.Station, m.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func readCSV(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(first[i]), col) {
			return nil, fmt.Errorf("header column %d = %q; want %q", i+1, first[i], col)
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return records, nil
}

func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
