package service

import (
	"context"

	"window_advisor/internal/models"
	"window_advisor/internal/repository"
)

// Status is the operator's view: current state plus the latest history.
type Status struct {
	State         models.AppState             `json:"state"`
	Readings      []models.TemperatureReading `json:"recent_readings"`
	Notifications []models.NotificationRecord `json:"recent_notifications"`
}

type MonitoringService struct {
	states        *StateStore
	readings      repository.ReadingRepo
	notifications repository.NotificationRepo
}

func NewMonitoringService(states *StateStore, readings repository.ReadingRepo, notifications repository.NotificationRepo) *MonitoringService {
	return &MonitoringService{states: states, readings: readings, notifications: notifications}
}

// GetState returns the persisted state, seeding the baseline on first use.
func (s *MonitoringService) GetState(ctx context.Context) (models.AppState, error) {
	st, err := s.states.get(ctx)
	if err != nil {
		return models.AppState{}, err
	}
	st.UpdatedAt = toUTC(st.UpdatedAt)
	return st, nil
}

// Status returns the state with the `recent` newest readings and notifications.
func (s *MonitoringService) Status(ctx context.Context, recent int) (Status, error) {
	st, err := s.GetState(ctx)
	if err != nil {
		return Status{}, err
	}
	readings, err := s.readings.ListRecent(ctx, recent)
	if err != nil {
		return Status{}, err
	}
	notes, err := s.notifications.ListRecent(ctx, recent)
	if err != nil {
		return Status{}, err
	}
	return Status{State: st, Readings: readings, Notifications: notes}, nil
}
