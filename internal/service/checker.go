package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"window_advisor/internal/decision"
	"window_advisor/internal/logger"
	"window_advisor/internal/models"
	"window_advisor/internal/notifier"
	"window_advisor/internal/repository"
	"window_advisor/internal/weather"
)

// CycleResult describes what one cycle observed and did.
type CycleResult struct {
	Reading  models.TemperatureReading `json:"reading"`
	Action   decision.Action           `json:"action"`
	Reason   string                    `json:"reason,omitempty"`
	State    models.AppState           `json:"state"`
	Notified bool                      `json:"notified"`
	// Delivered is meaningful only when Notified is true.
	Delivered     bool   `json:"delivered"`
	DeliveryError string `json:"delivery_error,omitempty"`
}

type CheckerDeps struct {
	States        *StateStore
	Readings      repository.ReadingRepo
	Notifications repository.NotificationRepo
	Source        weather.Source
	Notifier      notifier.Notifier
	ZipCode       string
	Decision      decision.Config
	// Location is the zone quiet hours are evaluated in.
	Location *time.Location
	Log      *logger.Logger
}

type CheckerService struct {
	CheckerDeps
	now func() time.Time
}

func NewCheckerService(d CheckerDeps) *CheckerService {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	return &CheckerService{CheckerDeps: d, now: time.Now}
}

// RunCycle fetches one reading and acts on it. A source failure returns an
// error wrapping weather.ErrSourceUnavailable and leaves all state untouched.
// A failed delivery is recorded, not rolled back.
func (s *CheckerService) RunCycle(ctx context.Context) (CycleResult, error) {
	reading, err := s.Source.Fetch(ctx, s.ZipCode)
	if err != nil {
		if !errors.Is(err, weather.ErrSourceUnavailable) {
			err = fmt.Errorf("%w: %v", weather.ErrSourceUnavailable, err)
		}
		s.Log.Warnw("cycle_skipped", "zip", s.ZipCode, "err", err)
		return CycleResult{}, err
	}
	s.Log.Infow("reading",
		"current", reading.CurrentTemp,
		"high", decision.FormatTemp(reading.DailyHighForecast),
		"low", decision.FormatTemp(reading.DailyLowForecast),
	)

	if err := s.Readings.Append(ctx, reading); err != nil {
		s.Log.Errorw("reading_append_failed", "err", err)
	}

	// Decide and apply under the store lock so overlapping cycles see each
	// other's notification and an override is never overwritten.
	now := s.now().In(s.Location)
	var (
		d       decision.Decision
		prev    models.AppState
		decided bool
	)
	next, err := s.States.modify(ctx, func(st models.AppState) (models.AppState, bool) {
		prev, decided = st, true
		d = decision.Decide(reading, st, s.Decision, now)
		if !d.Notify() {
			return st, false
		}
		return decision.Apply(st, d, now), true
	})
	if err != nil {
		if decided {
			return CycleResult{Reading: reading, Action: d.Action, Reason: d.Reason, State: prev}, fmt.Errorf("save state: %w", err)
		}
		return CycleResult{Reading: reading}, fmt.Errorf("load state: %w", err)
	}
	res := CycleResult{Reading: reading, Action: d.Action, Reason: d.Reason, State: next}

	if !d.Notify() {
		if d.Reason == decision.ReasonQuietHours {
			s.Log.Infow("no_action", "reason", d.Reason, "quiet", s.Decision.QuietHours.String(), "local_time", now.Format("15:04"))
		} else {
			s.Log.Infow("no_action", "reason", d.Reason, "window", next.WindowState, "mode", next.Mode)
		}
		return res, nil
	}
	res.Notified = true

	delivery := s.Notifier.Send(ctx, d.Message)
	res.Delivered = delivery.OK

	record := models.NotificationRecord{
		Timestamp:        now.UTC(),
		NotificationType: string(d.Action),
		CurrentTemp:      reading.CurrentTemp,
		ForecastHigh:     reading.DailyHighForecast,
		ForecastLow:      reading.DailyLowForecast,
		Message:          d.Message,
		SentSuccessfully: delivery.OK,
	}
	if delivery.Err != nil {
		msg := delivery.Err.Error()
		record.ErrorMessage = &msg
		res.DeliveryError = msg
		s.Log.Errorw("notification_failed", "type", d.Action, "err", delivery.Err)
	} else {
		s.Log.Infow("notification_sent", "type", d.Action, "window", next.WindowState)
	}

	if err := s.Notifications.Append(ctx, record); err != nil {
		s.Log.Errorw("notification_append_failed", "err", err)
	}
	return res, nil
}
