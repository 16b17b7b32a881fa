// Package weather fetches the current outdoor temperature and the day's
// forecast for a US ZIP code.
package weather

import (
	"context"
	"errors"
	"time"

	"window_advisor/internal/models"
)

// ErrSourceUnavailable wraps every failure to produce a reading. Callers skip
// the cycle when they see it.
var ErrSourceUnavailable = errors.New("weather source unavailable")

// Source yields one reading per call.
type Source interface {
	Fetch(ctx context.Context, zipCode string) (models.TemperatureReading, error)
}

// Options configure the Open-Meteo source.
type Options struct {
	ForecastURL string
	GeocodeURL  string
	Timeout     time.Duration
	Backoff     BackoffConfig
}

// DefaultBackoff bounds a failing fetch to a few seconds per endpoint.
var DefaultBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: 500 * time.Millisecond,
	MaxInterval:     2 * time.Second,
}
