// Package scheduler runs the advisor cycle on a fixed interval for
// deployments without an external cron.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"

	"window_advisor/internal/logger"
	"window_advisor/internal/service"
	"window_advisor/internal/weather"
)

const defaultInterval = 10 * time.Minute

// Scheduler periodically runs one advisor cycle.
type Scheduler struct {
	scheduler *gocron.Scheduler
	checker   service.Checker
	interval  time.Duration
	timeout   time.Duration
	log       *logger.Logger
}

// New creates a Scheduler. Each run gets timeout to finish (defaults to the
// interval itself).
func New(checker service.Checker, interval, timeout time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		checker:   checker,
		interval:  interval,
		timeout:   timeout,
		log:       log,
	}
}

// Start schedules the job, runs it immediately, and starts the underlying
// scheduler. Runs never overlap: a run still in progress causes the next
// tick to be skipped.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.log.Infow("scheduler_started", "interval", s.interval.String())
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.checker.RunCycle(ctx)
	switch {
	case errors.Is(err, weather.ErrSourceUnavailable):
		// already logged by the checker; try again next tick
	case err != nil:
		s.log.Errorw("cycle_failed", "err", err)
	default:
		s.log.Debugw("cycle_completed", "action", res.Action, "reason", res.Reason)
	}
}
