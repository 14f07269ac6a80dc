package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log/slog"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-max-date.sql
var getMaxDateSQL string

//go:embed sql/get-station-max-date.sql
var getStationMaxDateSQL string

//go:embed sql/get-measurements-since.sql
var getMeasurementsSinceSQL string

//go:embed sql/get-station-measurements-since.sql
var getStationMeasurementsSinceSQL string

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-temperature-stats-from.sql
var getTemperatureStatsFromSQL string

//go:embed sql/get-temperature-stats-range.sql
var getTemperatureStatsRangeSQL string

// ClimateRepository is the read-only query layer over the measurement and
// station tables. Date arguments and results are YYYY-MM-DD strings.
type ClimateRepository interface {
	// GetMaxDate reports the latest measurement date; ok is false on an empty table.
	GetMaxDate(ctx context.Context) (date string, ok bool, err error)
	GetMeasurementsSince(ctx context.Context, cutoff string) ([]types.Measurement, error)
	GetStations(ctx context.Context) ([]types.Station, error)
	// GetMostActiveStation returns the station with the most measurement rows,
	// ties going to the lowest identifier.
	GetMostActiveStation(ctx context.Context) (stationID string, ok bool, err error)
	GetStationMaxDate(ctx context.Context, stationID string) (date string, ok bool, err error)
	GetStationMeasurementsSince(ctx context.Context, stationID string, cutoff string) ([]types.Measurement, error)
	// GetTemperatureStats aggregates tobs over date >= start and, when end is
	// non-empty, date <= end.
	GetTemperatureStats(ctx context.Context, start string, end string) (types.TemperatureStats, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetMaxDate(ctx context.Context) (string, bool, error) {
	return r.queryNullString(ctx, getMaxDateSQL)
}

func (r *repositoryImpl) GetStationMaxDate(ctx context.Context, stationID string) (string, bool, error) {
	return r.queryNullString(ctx, getStationMaxDateSQL, stationID)
}

func (r *repositoryImpl) GetMostActiveStation(ctx context.Context) (string, bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, getMostActiveStationSQL).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (r *repositoryImpl) GetMeasurementsSince(ctx context.Context, cutoff string) ([]types.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, getMeasurementsSinceSQL, cutoff)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close measurements rows", "error", err)
		}
	}()
	return scanMeasurements(rows)
}

func (r *repositoryImpl) GetStationMeasurementsSince(ctx context.Context, stationID string, cutoff string) ([]types.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, getStationMeasurementsSinceSQL, stationID, cutoff)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close station measurements rows", "station", stationID, "error", err)
		}
	}()
	return scanMeasurements(rows)
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, getStationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()
	out := []types.Station{}
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.Elevation); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatureStats(ctx context.Context, start string, end string) (types.TemperatureStats, error) {
	var row *sql.Row
	if end == "" {
		row = r.db.QueryRowContext(ctx, getTemperatureStatsFromSQL, start)
	} else {
		row = r.db.QueryRowContext(ctx, getTemperatureStatsRangeSQL, start, end)
	}
	var lo, avg, hi sql.NullFloat64
	if err := row.Scan(&lo, &avg, &hi); err != nil {
		return types.TemperatureStats{}, err
	}
	return types.TemperatureStats{
		Min: floatPtr(lo),
		Avg: floatPtr(avg),
		Max: floatPtr(hi),
	}, nil
}

func (r *repositoryImpl) queryNullString(ctx context.Context, query string, args ...any) (string, bool, error) {
	var s sql.NullString
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s); err != nil {
		return "", false, err
	}
	return s.String, s.Valid, nil
}

func scanMeasurements(rows *sql.Rows) ([]types.Measurement, error) {
	out := []types.Measurement{}
	for rows.Next() {
		var (
			m          types.Measurement
			prcp, tobs sql.NullFloat64
		)
		if err := rows.Scan(&m.Station, &m.Date, &prcp, &tobs); err != nil {
			return nil, err
		}
		m.Precipitation = floatPtr(prcp)
		m.Temperature = floatPtr(tobs)
		out = append(out, m)
	}
	return out, rows.Err()
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
