package decision

import (
	"fmt"

	"window_advisor/internal/models"
)

// Message renders the notification text (Telegram HTML subset) for an action.
func Message(a Action, r models.TemperatureReading, mode string) string {
	var emoji, reason, title string
	switch a {
	case CloseWindows:
		title = "Close"
		if mode == models.ModeCooling {
			emoji, reason = "🌡️", "Time to close the windows and turn on the AC!"
		} else {
			emoji, reason = "🥶", "Getting too cold! Time to close the windows and turn on heat."
		}
	default:
		title = "Open"
		if mode == models.ModeCooling {
			emoji, reason = "🌬️", "Perfect time to open the windows and enjoy the fresh air!"
		} else {
			emoji, reason = "☀️", "Nice and warm! Perfect time to open the windows."
		}
	}

	return fmt.Sprintf("%s <b>%s Windows</b>\n\nCurrent temperature: %s\nDaily high forecast: %s\n\n%s",
		emoji, title, FormatTemp(&r.CurrentTemp), FormatTemp(r.DailyHighForecast), reason)
}

// FormatTemp prints a °F value with one decimal, or "n/a" for a missing one.
func FormatTemp(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f°F", *v)
}
