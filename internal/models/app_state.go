package models

import "time"

// Window positions.
const (
	WindowOpen   = "open"
	WindowClosed = "closed"
)

// Seasonal operating modes.
const (
	ModeCooling = "cooling"
	ModeHeating = "heating"
)

// Notification types. NotificationNone is the persisted "nothing sent yet" value.
const (
	NotificationOpenWindows  = "open_windows"
	NotificationCloseWindows = "close_windows"
	NotificationNone         = "none"
)

// AppState is the single persisted advisor record (row id always 1).
type AppState struct {
	ID                   int        `json:"id"`
	WindowState          string     `json:"window_state"`                     // open | closed
	Mode                 string     `json:"mode"`                             // cooling | heating
	LastNotificationType string     `json:"last_notification_type"`           // open_windows | close_windows | none
	LastNotificationTime *time.Time `json:"last_notification_time,omitempty"` // nil until the first notification
	UpdatedAt            time.Time  `json:"updated_at"`
}

// ValidWindowState reports whether s is a known window position.
func ValidWindowState(s string) bool {
	return s == WindowOpen || s == WindowClosed
}

// ValidMode reports whether m is a known seasonal mode.
func ValidMode(m string) bool {
	return m == ModeCooling || m == ModeHeating
}

// ValidNotificationType reports whether t can be stored in a NotificationRecord.
func ValidNotificationType(t string) bool {
	return t == NotificationOpenWindows || t == NotificationCloseWindows
}
