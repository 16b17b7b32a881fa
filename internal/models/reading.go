package models

import "time"

// TemperatureReading is one poll of the weather source. Append-only.
type TemperatureReading struct {
	ID                string    `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	CurrentTemp       float64   `json:"current_temp"`                  // °F
	DailyHighForecast *float64  `json:"daily_high_forecast,omitempty"` // °F, nil when the source omitted it
	DailyLowForecast  *float64  `json:"daily_low_forecast,omitempty"`  // °F, nil when the source omitted it
	LocationCode      string    `json:"location_code"`
}
