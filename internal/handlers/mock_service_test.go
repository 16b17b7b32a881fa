package handlers

import (
	"context"
	"net/http"
	"sync"

	"window_advisor/internal/models"
	"window_advisor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseUser     string
	parseErr      error

	lastGenUsername string
	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseUser, m.parseErr
}

type mockOverride struct {
	state   models.AppState
	err     error
	calls   []string
	lastArg string
}

func (m *mockOverride) SetWindow(_ context.Context, ws string) (models.AppState, error) {
	m.calls = append(m.calls, "window")
	m.lastArg = ws
	if m.err != nil {
		return models.AppState{}, m.err
	}
	m.state.WindowState = ws
	return m.state, nil
}

func (m *mockOverride) SetMode(_ context.Context, mode string) (models.AppState, error) {
	m.calls = append(m.calls, "mode")
	m.lastArg = mode
	if m.err != nil {
		return models.AppState{}, m.err
	}
	m.state.Mode = mode
	return m.state, nil
}

func (m *mockOverride) ResetNotifications(context.Context) (models.AppState, error) {
	m.calls = append(m.calls, "reset")
	if m.err != nil {
		return models.AppState{}, m.err
	}
	m.state.LastNotificationType = models.NotificationNone
	m.state.LastNotificationTime = nil
	return m.state, nil
}

type mockMonitoring struct {
	mu         sync.Mutex
	state      models.AppState
	status     service.Status
	err        error
	lastRecent int
}

func (m *mockMonitoring) GetState(context.Context) (models.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.err
}

func (m *mockMonitoring) Status(_ context.Context, recent int) (service.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRecent = recent
	return m.status, m.err
}

func (m *mockMonitoring) setState(st models.AppState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
}

type mockHistory struct {
	readings      []models.TemperatureReading
	notifications []models.NotificationRecord
	err           error
	lastLimit     int
}

func (m *mockHistory) Readings(_ context.Context, limit int) ([]models.TemperatureReading, error) {
	m.lastLimit = limit
	return m.readings, m.err
}

func (m *mockHistory) Notifications(_ context.Context, limit int) ([]models.NotificationRecord, error) {
	m.lastLimit = limit
	return m.notifications, m.err
}

type mockChecker struct {
	result service.CycleResult
	err    error
	calls  int
}

func (m *mockChecker) RunCycle(context.Context) (service.CycleResult, error) {
	m.calls++
	return m.result, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
