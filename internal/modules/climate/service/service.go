package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

// LookbackDays is the width of the "last 12 months" window, counted back from
// the most recent measurement date. The cutoff day itself is included.
const LookbackDays = 365

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("invalid date range")
)

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// Precipitation maps each date in the last 12 months of data to its
// precipitation. When several rows share a date, the last non-null value in
// (date, id) order wins; a date is nil only if all of its rows are NULL.
func (s *Service) Precipitation(ctx context.Context) (map[string]*float64, error) {
	out := map[string]*float64{}

	maxDate, ok, err := s.repository.GetMaxDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("max date: %w", err)
	}
	if !ok {
		return out, nil
	}
	cutoff, err := Cutoff(maxDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.repository.GetMeasurementsSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("measurements since %s: %w", cutoff, err)
	}
	for _, m := range rows {
		if m.Precipitation != nil {
			out[m.Date] = m.Precipitation
			continue
		}
		if _, seen := out[m.Date]; !seen {
			out[m.Date] = nil
		}
	}
	return out, nil
}

// StationIDs lists every station identifier in row order.
func (s *Service) StationIDs(ctx context.Context) ([]string, error) {
	stations, err := s.repository.GetStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("stations: %w", err)
	}
	ids := make([]string, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

// TemperatureObservations returns one {date: tobs} entry per row of the most
// active station over its own last 12 months. Rows sharing a date are all kept.
func (s *Service) TemperatureObservations(ctx context.Context) ([]map[string]*float64, error) {
	out := []map[string]*float64{}

	stationID, ok, err := s.repository.GetMostActiveStation(ctx)
	if err != nil {
		return nil, fmt.Errorf("most active station: %w", err)
	}
	if !ok {
		return out, nil
	}

	maxDate, ok, err := s.repository.GetStationMaxDate(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("max date for %s: %w", stationID, err)
	}
	if !ok {
		return out, nil
	}
	cutoff, err := Cutoff(maxDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.repository.GetStationMeasurementsSince(ctx, stationID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("measurements for %s since %s: %w", stationID, cutoff, err)
	}
	for _, m := range rows {
		out = append(out, map[string]*float64{m.Date: m.Temperature})
	}
	return out, nil
}

// TemperatureStats computes min/avg/max tobs for dates >= start and, when end
// is non-empty, <= end. Both bounds must be YYYY-MM-DD calendar dates.
func (s *Service) TemperatureStats(ctx context.Context, start string, end string) (types.TemperatureStats, error) {
	from, err := ParseDate(start)
	if err != nil {
		return types.TemperatureStats{}, err
	}
	if end != "" {
		to, err := ParseDate(end)
		if err != nil {
			return types.TemperatureStats{}, err
		}
		if from.After(to) {
			return types.TemperatureStats{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
		}
	}

	stats, err := s.repository.GetTemperatureStats(ctx, start, end)
	if err != nil {
		return types.TemperatureStats{}, fmt.Errorf("temperature stats: %w", err)
	}
	return stats, nil
}

// Cutoff returns the first date of the lookback window ending at maxDate.
func Cutoff(maxDate string) (string, error) {
	t, err := time.Parse(types.DateLayout, maxDate)
	if err != nil {
		return "", fmt.Errorf("stored date %q: %w", maxDate, err)
	}
	return t.AddDate(0, 0, -LookbackDays).Format(types.DateLayout), nil
}

// ParseDate parses a YYYY-MM-DD path parameter.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q (expected YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return t, nil
}
