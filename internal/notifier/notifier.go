// Package notifier delivers advisor messages to the user.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"window_advisor/internal/config"
)

// ErrNotConfigured is reported when a backend lacks credentials or a target.
var ErrNotConfigured = errors.New("notifier not configured")

// Result is the outcome of one delivery attempt. Err is nil when OK.
type Result struct {
	OK  bool
	Err error
}

func failed(err error) Result { return Result{Err: err} }

// Notifier sends a formatted message. Delivery failures are returned in the
// Result, never as a panic.
type Notifier interface {
	Send(ctx context.Context, message string) Result
}

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.NotifierConfig) (Notifier, error) {
	switch cfg.Backend {
	case "", "telegram":
		return NewTelegram(cfg.Telegram, cfg.Timeout), nil
	case "sns":
		return NewSNS(ctx, cfg.SNS)
	default:
		return nil, fmt.Errorf("unknown notifier backend %q", cfg.Backend)
	}
}
