package service

import (
	"context"
	"errors"
	"fmt"

	"window_advisor/internal/models"
)

var (
	ErrInvalidWindowState = errors.New("invalid window state: must be open or closed")
	ErrInvalidMode        = errors.New("invalid mode: must be cooling or heating")
)

type OverrideService struct {
	states *StateStore
}

func NewOverrideService(states *StateStore) *OverrideService {
	return &OverrideService{states: states}
}

// SetWindow records the actual window position, e.g. after the user ignored
// a notification. Notification bookkeeping is left alone.
func (s *OverrideService) SetWindow(ctx context.Context, windowState string) (models.AppState, error) {
	if !models.ValidWindowState(windowState) {
		return models.AppState{}, fmt.Errorf("%w: %q", ErrInvalidWindowState, windowState)
	}
	return s.update(ctx, func(st *models.AppState) { st.WindowState = windowState })
}

// SetMode switches between the cooling and heating rule sets.
func (s *OverrideService) SetMode(ctx context.Context, mode string) (models.AppState, error) {
	if !models.ValidMode(mode) {
		return models.AppState{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	return s.update(ctx, func(st *models.AppState) { st.Mode = mode })
}

// ResetNotifications clears the last notification so the next qualifying
// reading notifies without waiting out the suppression window.
func (s *OverrideService) ResetNotifications(ctx context.Context) (models.AppState, error) {
	return s.update(ctx, func(st *models.AppState) {
		st.LastNotificationType = models.NotificationNone
		st.LastNotificationTime = nil
	})
}

func (s *OverrideService) update(ctx context.Context, mutate func(*models.AppState)) (models.AppState, error) {
	return s.states.modify(ctx, func(st models.AppState) (models.AppState, bool) {
		mutate(&st)
		st.UpdatedAt = s.states.now().UTC()
		return st, true
	})
}
