package service

import (
	"context"
	"errors"
	"time"

	"window_advisor/internal/models"
	"window_advisor/internal/repository"
)

const maxHistoryLimit = 500

// ErrInvalidLimit is returned for out-of-range history page sizes.
var ErrInvalidLimit = errors.New("invalid limit: must be between 1 and 500")

type HistoryService struct {
	readings      repository.ReadingRepo
	notifications repository.NotificationRepo
}

func NewHistoryService(readings repository.ReadingRepo, notifications repository.NotificationRepo) *HistoryService {
	return &HistoryService{readings: readings, notifications: notifications}
}

func validateLimit(limit int) error {
	if limit < 1 || limit > maxHistoryLimit {
		return ErrInvalidLimit
	}
	return nil
}

func (s *HistoryService) Readings(ctx context.Context, limit int) ([]models.TemperatureReading, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	return s.readings.ListRecent(ctx, limit)
}

func (s *HistoryService) Notifications(ctx context.Context, limit int) ([]models.NotificationRecord, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	return s.notifications.ListRecent(ctx, limit)
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
