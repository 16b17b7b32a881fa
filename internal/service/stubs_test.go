package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"window_advisor/internal/models"
	"window_advisor/internal/notifier"
)

// stateRepoStub keeps the singleton row in memory.
type stateRepoStub struct {
	mu       sync.Mutex
	state    models.AppState
	loadErr  error
	saveErr  error
	saved    []models.AppState
	loadCall int
}

func (s *stateRepoStub) Load(context.Context) (models.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCall++
	return s.state, s.loadErr
}

func (s *stateRepoStub) Save(_ context.Context, st models.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	st.ID = 1
	s.state = st
	s.saved = append(s.saved, st)
	return nil
}

func (s *stateRepoStub) current() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// rendezvousStateRepo holds each Load until `parties` loads are waiting or
// wait expires. Two callers that both load before either saves pass
// together; callers that are serialized each time out and go one by one.
type rendezvousStateRepo struct {
	*stateRepoStub
	parties int
	wait    time.Duration

	mu      sync.Mutex
	waiting int
	release chan struct{}
	loaded  chan struct{}
}

func newRendezvousStateRepo(st models.AppState, parties int, wait time.Duration) *rendezvousStateRepo {
	return &rendezvousStateRepo{
		stateRepoStub: &stateRepoStub{state: st},
		parties:       parties,
		wait:          wait,
		release:       make(chan struct{}),
		loaded:        make(chan struct{}, 16),
	}
}

func (r *rendezvousStateRepo) Load(ctx context.Context) (models.AppState, error) {
	r.mu.Lock()
	r.waiting++
	if r.waiting == r.parties {
		close(r.release)
	}
	r.mu.Unlock()
	r.loaded <- struct{}{}

	select {
	case <-r.release:
	case <-time.After(r.wait):
	}
	return r.stateRepoStub.Load(ctx)
}

type readingRepoStub struct {
	mu        sync.Mutex
	appended  []models.TemperatureReading
	appendErr error
	list      []models.TemperatureReading
	listErr   error
	lastLimit int
}

func (r *readingRepoStub) Append(_ context.Context, rd models.TemperatureReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appended = append(r.appended, rd)
	return nil
}

func (r *readingRepoStub) ListRecent(_ context.Context, limit int) ([]models.TemperatureReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	return r.list, r.listErr
}

type notificationRepoStub struct {
	mu        sync.Mutex
	appended  []models.NotificationRecord
	appendErr error
	list      []models.NotificationRecord
	listErr   error
	lastLimit int
}

func (n *notificationRepoStub) Append(_ context.Context, rec models.NotificationRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.appendErr != nil {
		return n.appendErr
	}
	n.appended = append(n.appended, rec)
	return nil
}

func (n *notificationRepoStub) ListRecent(_ context.Context, limit int) ([]models.NotificationRecord, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastLimit = limit
	return n.list, n.listErr
}

type sourceStub struct {
	mu      sync.Mutex
	reading models.TemperatureReading
	err     error
	calls   int
}

func (s *sourceStub) Fetch(_ context.Context, zip string) (models.TemperatureReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return models.TemperatureReading{}, s.err
	}
	r := s.reading
	r.LocationCode = zip
	return r, nil
}

type notifierStub struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (n *notifierStub) Send(_ context.Context, msg string) notifier.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	if n.fail {
		return notifier.Result{Err: errors.New("telegram returned 502: Bad Gateway")}
	}
	return notifier.Result{OK: true}
}

func (n *notifierStub) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func fp(v float64) *float64 { return &v }
