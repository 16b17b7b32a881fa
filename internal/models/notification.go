package models

import "time"

// NotificationRecord is written once per attempted notification, delivered or not.
type NotificationRecord struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	NotificationType string    `json:"notification_type"` // open_windows | close_windows
	CurrentTemp      float64   `json:"current_temp"`
	ForecastHigh     *float64  `json:"forecast_high,omitempty"`
	ForecastLow      *float64  `json:"forecast_low,omitempty"`
	Message          string    `json:"message"`
	SentSuccessfully bool      `json:"sent_successfully"`
	ErrorMessage     *string   `json:"error_message,omitempty"`
}
