package service

import (
	"context"
	"sync"
	"time"

	"window_advisor/internal/config"
	"window_advisor/internal/logger"
	"window_advisor/internal/models"
	"window_advisor/internal/notifier"
	"window_advisor/internal/repository"
	"window_advisor/internal/weather"
)

type Authorization interface {
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Override exposes the manual corrections an operator can make.
type Override interface {
	SetWindow(ctx context.Context, windowState string) (models.AppState, error)
	SetMode(ctx context.Context, mode string) (models.AppState, error)
	ResetNotifications(ctx context.Context) (models.AppState, error)
}

// Monitoring exposes read-only state.
type Monitoring interface {
	GetState(ctx context.Context) (models.AppState, error)
	Status(ctx context.Context, recent int) (Status, error)
}

// History exposes the append-only reading and notification logs.
type History interface {
	Readings(ctx context.Context, limit int) ([]models.TemperatureReading, error)
	Notifications(ctx context.Context, limit int) ([]models.NotificationRecord, error)
}

// Checker runs one fetch → decide → notify cycle.
type Checker interface {
	RunCycle(ctx context.Context) (CycleResult, error)
}

type Service struct {
	Override
	Monitoring
	History
	Checker
	Authorization
}

// Deps are the collaborators NewService wires together.
type Deps struct {
	Repos    *repository.Repository
	Source   weather.Source
	Notifier notifier.Notifier
	Config   *config.Config
	Log      *logger.Logger
}

// NewService wires the repository layer and the I/O adapters into the
// concrete services.
func NewService(d Deps) *Service {
	states := NewStateStore(d.Repos.StateRepo, d.Config.DefaultMode)
	return &Service{
		Override:   NewOverrideService(states),
		Monitoring: NewMonitoringService(states, d.Repos.ReadingRepo, d.Repos.NotificationRepo),
		History:    NewHistoryService(d.Repos.ReadingRepo, d.Repos.NotificationRepo),
		Checker: NewCheckerService(CheckerDeps{
			States:        states,
			Readings:      d.Repos.ReadingRepo,
			Notifications: d.Repos.NotificationRepo,
			Source:        d.Source,
			Notifier:      d.Notifier,
			ZipCode:       d.Config.Location.ZipCode,
			Decision:      d.Config.Decision(),
			Location:      d.Config.TimeLocation(),
			Log:           d.Log,
		}),
		Authorization: NewAuthService(AuthConfig{
			Username:     d.Config.API.Username,
			PasswordHash: d.Config.API.PasswordHash,
			Secret:       d.Config.API.JWTSecret,
			TokenTTL:     d.Config.API.TokenTTL,
		}),
	}
}

// StateStore loads the singleton state and seeds the baseline row the first
// time it is read. Every load-modify-save runs under mu, so a check cycle and
// an operator override never interleave.
type StateStore struct {
	mu          sync.Mutex
	repo        repository.StateRepo
	defaultMode string
	now         func() time.Time
}

func NewStateStore(repo repository.StateRepo, defaultMode string) *StateStore {
	if !models.ValidMode(defaultMode) {
		defaultMode = models.ModeCooling
	}
	return &StateStore{repo: repo, defaultMode: defaultMode, now: time.Now}
}

// get loads the state under the store lock.
func (s *StateStore) get(ctx context.Context) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// modify runs fn on the loaded state while holding the store lock. The state
// fn returns is saved only when save is true.
func (s *StateStore) modify(ctx context.Context, fn func(models.AppState) (next models.AppState, save bool)) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return models.AppState{}, err
	}
	next, save := fn(st)
	if !save {
		return next, nil
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return models.AppState{}, err
	}
	return next, nil
}

// load requires mu.
func (s *StateStore) load(ctx context.Context) (models.AppState, error) {
	st, err := s.repo.Load(ctx)
	if err != nil {
		return models.AppState{}, err
	}
	if st.ID != 0 {
		return st, nil
	}

	st = s.baseline()
	if err := s.repo.Save(ctx, st); err != nil {
		return models.AppState{}, err
	}
	return st, nil
}

// baseline is the state of a fresh install: windows closed, no notification yet.
func (s *StateStore) baseline() models.AppState {
	return models.AppState{
		ID:                   1, // DB schema enforces single-row state with id=1
		WindowState:          models.WindowClosed,
		Mode:                 s.defaultMode,
		LastNotificationType: models.NotificationNone,
		UpdatedAt:            s.now().UTC(),
	}
}
