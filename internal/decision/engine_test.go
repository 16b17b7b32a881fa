package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"window_advisor/internal/models"
)

func f(v float64) *float64 { return &v }

func testConfig() Config {
	return Config{
		Thresholds: Thresholds{
			CloseTemp:                   78,
			OpenTemp:                    76,
			ForecastHighThreshold:       80,
			HeatingCloseTemp:            55,
			HeatingOpenTemp:             65,
			HeatingForecastLowThreshold: 70,
		},
		QuietHours:           QuietHours{StartHour: 22, StartMinute: 30, EndHour: 7, EndMinute: 0},
		DuplicateSuppression: 30 * time.Minute,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 7, 14, hour, minute, 0, 0, time.UTC)
}

func reading(current float64, high, low *float64) models.TemperatureReading {
	return models.TemperatureReading{CurrentTemp: current, DailyHighForecast: high, DailyLowForecast: low, LocationCode: "10001"}
}

func state(mode, window string) models.AppState {
	return models.AppState{ID: 1, Mode: mode, WindowState: window, LastNotificationType: models.NotificationNone}
}

func TestDecide_Rules(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		name       string
		r          models.TemperatureReading
		st         models.AppState
		wantAction Action
		wantReason string
	}{
		{"cooling close when hot and hot forecast", reading(79, f(82), f(65)), state(models.ModeCooling, models.WindowOpen), CloseWindows, ""},
		{"cooling close at exact close temp", reading(78, f(81), nil), state(models.ModeCooling, models.WindowOpen), CloseWindows, ""},
		{"cooling stays open when forecast at threshold", reading(79, f(80), nil), state(models.ModeCooling, models.WindowOpen), NoAction, ReasonConditionsNotMet},
		{"cooling stays open below close temp", reading(77, f(90), nil), state(models.ModeCooling, models.WindowOpen), NoAction, ReasonConditionsNotMet},
		{"cooling close needs forecast", reading(85, nil, nil), state(models.ModeCooling, models.WindowOpen), NoAction, ReasonMissingForecast},
		{"cooling already closed", reading(85, f(90), nil), state(models.ModeCooling, models.WindowClosed), NoAction, ReasonConditionsNotMet},
		{"cooling open when cool", reading(75, f(85), nil), state(models.ModeCooling, models.WindowClosed), OpenWindows, ""},
		{"cooling open ignores missing forecast", reading(76, nil, nil), state(models.ModeCooling, models.WindowClosed), OpenWindows, ""},
		{"cooling already open", reading(70, f(85), nil), state(models.ModeCooling, models.WindowOpen), NoAction, ReasonConditionsNotMet},
		{"heating close when cold", reading(55, f(60), nil), state(models.ModeHeating, models.WindowOpen), CloseWindows, ""},
		{"heating close ignores missing forecast", reading(40, nil, nil), state(models.ModeHeating, models.WindowOpen), CloseWindows, ""},
		{"heating open when warm and mild forecast", reading(66, f(68), nil), state(models.ModeHeating, models.WindowClosed), OpenWindows, ""},
		{"heating stays closed with high forecast", reading(68, f(75), nil), state(models.ModeHeating, models.WindowClosed), NoAction, ReasonConditionsNotMet},
		{"heating open needs forecast", reading(68, nil, f(50)), state(models.ModeHeating, models.WindowClosed), NoAction, ReasonMissingForecast},
		{"heating stays closed below open temp", reading(60, f(65), nil), state(models.ModeHeating, models.WindowClosed), NoAction, ReasonConditionsNotMet},
		{"unknown mode", reading(90, f(95), nil), state("auto", models.WindowOpen), NoAction, ReasonUnknownMode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.r, tc.st, cfg, at(14, 0))
			assert.Equal(t, tc.wantAction, got.Action)
			assert.Equal(t, tc.wantReason, got.Reason)
			if got.Notify() {
				assert.NotEmpty(t, got.Message)
			} else {
				assert.Empty(t, got.Message)
			}
		})
	}
}

func TestDecide_CoolingCloseProperty(t *testing.T) {
	cfg := testConfig()
	st := state(models.ModeCooling, models.WindowOpen)
	for cur := cfg.Thresholds.CloseTemp; cur <= 110; cur += 2.5 {
		for high := cfg.Thresholds.ForecastHighThreshold + 0.5; high <= 115; high += 3 {
			got := Decide(reading(cur, f(high), nil), st, cfg, at(12, 0))
			require.Equal(t, CloseWindows, got.Action, "current=%v high=%v", cur, high)
		}
	}
}

func TestDecide_HeatingOpenProperty(t *testing.T) {
	cfg := testConfig()
	st := state(models.ModeHeating, models.WindowClosed)
	for cur := cfg.Thresholds.HeatingOpenTemp; cur <= 90; cur += 2.5 {
		for high := 30.0; high < cfg.Thresholds.HeatingForecastLowThreshold; high += 3 {
			got := Decide(reading(cur, f(high), nil), st, cfg, at(12, 0))
			require.Equal(t, OpenWindows, got.Action, "current=%v high=%v", cur, high)
		}
	}
}

func TestDecide_QuietHoursSuppress(t *testing.T) {
	cfg := testConfig()
	r := reading(79, f(82), nil)
	st := state(models.ModeCooling, models.WindowOpen)

	got := Decide(r, st, cfg, at(23, 0))
	assert.Equal(t, NoAction, got.Action)
	assert.Equal(t, ReasonQuietHours, got.Reason)

	// state must not move while suppressed
	assert.Equal(t, st, Apply(st, got, at(23, 0)))

	got = Decide(r, st, cfg, at(7, 1))
	assert.Equal(t, CloseWindows, got.Action)
}

func TestDecide_DuplicateSuppression(t *testing.T) {
	cfg := testConfig()
	r := reading(75, f(85), nil)

	last := at(10, 0)
	st := state(models.ModeCooling, models.WindowClosed)
	st.LastNotificationType = models.NotificationOpenWindows
	st.LastNotificationTime = &last

	got := Decide(r, st, cfg, at(10, 15))
	assert.Equal(t, NoAction, got.Action)
	assert.Equal(t, ReasonDuplicate, got.Reason)

	got = Decide(r, st, cfg, at(10, 30))
	assert.Equal(t, OpenWindows, got.Action, "window elapsed exactly")

	st.LastNotificationType = models.NotificationCloseWindows
	got = Decide(r, st, cfg, at(10, 15))
	assert.Equal(t, OpenWindows, got.Action, "different type is not a duplicate")
}

func TestDecide_QuietHoursCheckedBeforeDuplicate(t *testing.T) {
	cfg := testConfig()
	last := at(22, 50)
	st := state(models.ModeCooling, models.WindowOpen)
	st.LastNotificationType = models.NotificationCloseWindows
	st.LastNotificationTime = &last

	got := Decide(reading(90, f(95), nil), st, cfg, at(23, 0))
	assert.Equal(t, NoAction, got.Action)
	assert.Equal(t, ReasonQuietHours, got.Reason)
}

func TestDecide_SecondIdenticalDecisionIsNoAction(t *testing.T) {
	cfg := testConfig()
	r := reading(79, f(82), nil)
	now := at(14, 0)
	st := state(models.ModeCooling, models.WindowOpen)

	first := Decide(r, st, cfg, now)
	require.Equal(t, CloseWindows, first.Action)
	st = Apply(st, first, now)

	second := Decide(r, st, cfg, now)
	assert.Equal(t, NoAction, second.Action)

	// Even if the window position were reverted by hand, the same type is suppressed.
	st.WindowState = models.WindowOpen
	third := Decide(r, st, cfg, now.Add(time.Minute))
	assert.Equal(t, NoAction, third.Action)
	assert.Equal(t, ReasonDuplicate, third.Reason)
}

func TestApply(t *testing.T) {
	st := state(models.ModeCooling, models.WindowOpen)
	now := time.Date(2025, 7, 14, 14, 0, 0, 0, time.FixedZone("EDT", -4*3600))

	got := Apply(st, Decision{Action: CloseWindows, Message: "x"}, now)
	assert.Equal(t, models.WindowClosed, got.WindowState)
	assert.Equal(t, models.NotificationCloseWindows, got.LastNotificationType)
	require.NotNil(t, got.LastNotificationTime)
	assert.True(t, got.LastNotificationTime.Equal(now))
	assert.Equal(t, time.UTC, got.LastNotificationTime.Location())
	assert.Equal(t, models.ModeCooling, got.Mode)

	assert.Equal(t, st, Apply(st, Decision{Action: NoAction}, now))
}
