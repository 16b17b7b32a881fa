// Package decision maps a fresh temperature reading and the persisted advisor
// state to the next window action.
package decision

import (
	"time"

	"window_advisor/internal/models"
)

// Action is the outcome of a decision.
type Action string

const (
	NoAction     Action = "no_action"
	OpenWindows  Action = models.NotificationOpenWindows
	CloseWindows Action = models.NotificationCloseWindows
)

// Reasons attached to a NoAction decision.
const (
	ReasonConditionsNotMet = "conditions_not_met"
	ReasonMissingForecast  = "missing_forecast"
	ReasonQuietHours       = "quiet_hours"
	ReasonDuplicate        = "duplicate_suppressed"
	ReasonUnknownMode      = "unknown_mode"
)

// Thresholds are the seasonal temperature limits in °F.
type Thresholds struct {
	CloseTemp             float64
	OpenTemp              float64
	ForecastHighThreshold float64

	HeatingCloseTemp            float64
	HeatingOpenTemp             float64
	HeatingForecastLowThreshold float64
}

// Config is everything Decide needs besides the reading and state.
type Config struct {
	Thresholds           Thresholds
	QuietHours           QuietHours
	DuplicateSuppression time.Duration
}

// Decision is the engine's verdict. Message is set only when Action != NoAction.
type Decision struct {
	Action  Action
	Message string
	Reason  string
}

// Notify reports whether the decision should produce a notification.
func (d Decision) Notify() bool {
	return d.Action != NoAction
}

// TargetWindowState is the window position implied by the action.
func (d Decision) TargetWindowState() string {
	switch d.Action {
	case OpenWindows:
		return models.WindowOpen
	case CloseWindows:
		return models.WindowClosed
	default:
		return ""
	}
}

// Decide evaluates the seasonal rules, then quiet hours, then duplicate
// suppression. now is interpreted in its own location for quiet hours.
func Decide(r models.TemperatureReading, st models.AppState, cfg Config, now time.Time) Decision {
	var (
		action Action
		reason string
	)
	switch st.Mode {
	case models.ModeCooling:
		action, reason = coolingAction(r, st, cfg.Thresholds)
	case models.ModeHeating:
		action, reason = heatingAction(r, st, cfg.Thresholds)
	default:
		return Decision{Action: NoAction, Reason: ReasonUnknownMode}
	}
	if action == NoAction {
		return Decision{Action: NoAction, Reason: reason}
	}

	if cfg.QuietHours.Contains(now) {
		return Decision{Action: NoAction, Reason: ReasonQuietHours}
	}
	if isDuplicate(action, st, cfg.DuplicateSuppression, now) {
		return Decision{Action: NoAction, Reason: ReasonDuplicate}
	}

	return Decision{
		Action:  action,
		Message: Message(action, r, st.Mode),
	}
}

func coolingAction(r models.TemperatureReading, st models.AppState, t Thresholds) (Action, string) {
	switch st.WindowState {
	case models.WindowOpen:
		if r.CurrentTemp < t.CloseTemp {
			return NoAction, ReasonConditionsNotMet
		}
		if r.DailyHighForecast == nil {
			return NoAction, ReasonMissingForecast
		}
		if *r.DailyHighForecast > t.ForecastHighThreshold {
			return CloseWindows, ""
		}
	case models.WindowClosed:
		if r.CurrentTemp <= t.OpenTemp {
			return OpenWindows, ""
		}
	}
	return NoAction, ReasonConditionsNotMet
}

func heatingAction(r models.TemperatureReading, st models.AppState, t Thresholds) (Action, string) {
	switch st.WindowState {
	case models.WindowOpen:
		if r.CurrentTemp <= t.HeatingCloseTemp {
			return CloseWindows, ""
		}
	case models.WindowClosed:
		if r.CurrentTemp < t.HeatingOpenTemp {
			return NoAction, ReasonConditionsNotMet
		}
		if r.DailyHighForecast == nil {
			return NoAction, ReasonMissingForecast
		}
		if *r.DailyHighForecast < t.HeatingForecastLowThreshold {
			return OpenWindows, ""
		}
	}
	return NoAction, ReasonConditionsNotMet
}

func isDuplicate(a Action, st models.AppState, window time.Duration, now time.Time) bool {
	if st.LastNotificationType != string(a) || st.LastNotificationTime == nil {
		return false
	}
	return now.Sub(*st.LastNotificationTime) < window
}

// Apply returns st after a notifying decision: window moved to the target and
// the notification bookkeeping stamped with now. NoAction returns st unchanged.
func Apply(st models.AppState, d Decision, now time.Time) models.AppState {
	if !d.Notify() {
		return st
	}
	ts := now.UTC()
	st.WindowState = d.TargetWindowState()
	st.LastNotificationType = string(d.Action)
	st.LastNotificationTime = &ts
	st.UpdatedAt = ts
	return st
}
