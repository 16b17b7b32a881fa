package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"window_advisor/internal/models"
)

type coordinates struct {
	Lat float64
	Lon float64
}

// OpenMeteo resolves a ZIP code through zippopotam.us and reads the current
// temperature and daily high/low (°F) from the Open-Meteo forecast API.
type OpenMeteo struct {
	forecastURL string
	geocodeURL  string
	client      *http.Client
	backoff     BackoffConfig

	forecastCB *gobreaker.CircuitBreaker
	geocodeCB  *gobreaker.CircuitBreaker

	mu    sync.Mutex
	coord map[string]coordinates

	now func() time.Time
}

func NewOpenMeteo(opts Options) *OpenMeteo {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoff := opts.Backoff
	if backoff.InitialInterval <= 0 {
		backoff = DefaultBackoff
	}
	return &OpenMeteo{
		forecastURL: opts.ForecastURL,
		geocodeURL:  strings.TrimRight(opts.GeocodeURL, "/"),
		client:      &http.Client{Timeout: timeout},
		backoff:     backoff,
		forecastCB:  newBreaker("open-meteo"),
		geocodeCB:   newBreaker("zippopotam"),
		coord:       make(map[string]coordinates),
		now:         time.Now,
	}
}

// Fetch implements Source.
func (o *OpenMeteo) Fetch(ctx context.Context, zipCode string) (models.TemperatureReading, error) {
	c, err := o.geocode(ctx, zipCode)
	if err != nil {
		return models.TemperatureReading{}, fmt.Errorf("%w: geocode %s: %v", ErrSourceUnavailable, zipCode, err)
	}

	current, high, low, err := o.forecast(ctx, c)
	if err != nil {
		return models.TemperatureReading{}, fmt.Errorf("%w: forecast: %v", ErrSourceUnavailable, err)
	}

	return models.TemperatureReading{
		Timestamp:         o.now().UTC(),
		CurrentTemp:       current,
		DailyHighForecast: high,
		DailyLowForecast:  low,
		LocationCode:      zipCode,
	}, nil
}

func (o *OpenMeteo) geocode(ctx context.Context, zipCode string) (coordinates, error) {
	o.mu.Lock()
	c, ok := o.coord[zipCode]
	o.mu.Unlock()
	if ok {
		return c, nil
	}

	resp, err := doRequest(ctx, o.client, o.backoff, o.geocodeCB, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, o.geocodeURL+"/"+url.PathEscape(zipCode), nil)
	})
	if err != nil {
		return coordinates{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Places []struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(payload.Places) == 0 {
		return coordinates{}, fmt.Errorf("no places for zip %q", zipCode)
	}

	lat, err := strconv.ParseFloat(payload.Places[0].Latitude, 64)
	if err != nil {
		return coordinates{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(payload.Places[0].Longitude, 64)
	if err != nil {
		return coordinates{}, fmt.Errorf("parse longitude: %w", err)
	}

	c = coordinates{Lat: lat, Lon: lon}
	o.mu.Lock()
	o.coord[zipCode] = c
	o.mu.Unlock()
	return c, nil
}

func (o *OpenMeteo) forecast(ctx context.Context, c coordinates) (float64, *float64, *float64, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	values.Set("current", "temperature_2m")
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("temperature_unit", "fahrenheit")
	values.Set("timezone", "auto")
	values.Set("forecast_days", "1")

	resp, err := doRequest(ctx, o.client, o.backoff, o.forecastCB, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, o.forecastURL+"?"+values.Encode(), nil)
	})
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Temperature *float64 `json:"temperature_2m"`
		} `json:"current"`
		Daily struct {
			Max []*float64 `json:"temperature_2m_max"`
			Min []*float64 `json:"temperature_2m_min"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, nil, nil, fmt.Errorf("decode forecast response: %w", err)
	}
	if payload.Current.Temperature == nil {
		return 0, nil, nil, fmt.Errorf("forecast response has no current temperature")
	}

	return *payload.Current.Temperature, first(payload.Daily.Max), first(payload.Daily.Min), nil
}

// first returns the first daily value or nil when the series is empty.
func first(series []*float64) *float64 {
	if len(series) == 0 {
		return nil
	}
	return series[0]
}
