package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"window_advisor/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

const (
	insertReadingSQL = `
		INSERT INTO temperature_readings (id, timestamp, current_temp, daily_high_forecast, daily_low_forecast, location_code)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectRecentReadingsSQL = `
		SELECT id, timestamp, current_temp, daily_high_forecast, daily_low_forecast, location_code
		FROM temperature_readings
		ORDER BY timestamp DESC
		LIMIT ?
	`
)

// Append inserts a reading. If ID or Timestamp are empty, they're set.
func (r *ReadingSQLite) Append(ctx context.Context, rd models.TemperatureReading) error {
	if rd.ID == "" {
		rd.ID = uuid.NewString()
	}
	rd.Timestamp = stampUTC(rd.Timestamp)

	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		rd.ID,
		rd.Timestamp,
		rd.CurrentTemp,
		nullableFloat(rd.DailyHighForecast),
		nullableFloat(rd.DailyLowForecast),
		rd.LocationCode,
	)
	return err
}

// ListRecent returns up to limit readings, newest first.
func (r *ReadingSQLite) ListRecent(ctx context.Context, limit int) ([]models.TemperatureReading, error) {
	rows, err := r.db.QueryContext(ctx, selectRecentReadingsSQL, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.TemperatureReading, 0, clampLimit(limit))
	for rows.Next() {
		var (
			rd        models.TemperatureReading
			high, low sql.NullFloat64
		)
		if err := rows.Scan(&rd.ID, &rd.Timestamp, &rd.CurrentTemp, &high, &low, &rd.LocationCode); err != nil {
			return nil, err
		}
		rd.Timestamp = rd.Timestamp.UTC()
		rd.DailyHighForecast = floatPtr(high)
		rd.DailyLowForecast = floatPtr(low)
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// shared helpers for the history tables

const (
	defaultListLimit = 20
	maxListLimit     = 500
)

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultListLimit
	case n > maxListLimit:
		return maxListLimit
	default:
		return n
	}
}

func stampUTC(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
