package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"window_advisor/internal/decision"
	"window_advisor/internal/models"
	"window_advisor/internal/service"
)

// recentRows is how many readings and notifications status prints.
const recentRows = 3

var errUsage = errors.New("usage")

const usageText = `usage: windowctl [--config path] <command>

commands:
  status                    show state and recent activity
  open | closed             record the actual window position
  mode cooling|heating      switch seasonal mode
  reset                     forget the last notification
  hash-password <password>  print a bcrypt hash for api.password_hash
`

type app struct {
	override   service.Override
	monitoring service.Monitoring
	out        io.Writer
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "status":
		if len(rest) != 0 {
			return errUsage
		}
		return a.status(ctx)
	case models.WindowOpen, models.WindowClosed:
		if len(rest) != 0 {
			return errUsage
		}
		st, err := a.override.SetWindow(ctx, cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Window state set to %s.\n", st.WindowState)
		return nil
	case "mode":
		if len(rest) != 1 {
			return errUsage
		}
		st, err := a.override.SetMode(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Mode set to %s.\n", st.Mode)
		return nil
	case "reset":
		if len(rest) != 0 {
			return errUsage
		}
		if _, err := a.override.ResetNotifications(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Notification history reset; the next qualifying reading will notify.")
		return nil
	default:
		return errUsage
	}
}

func (a *app) status(ctx context.Context) error {
	s, err := a.monitoring.Status(ctx, recentRows)
	if err != nil {
		return err
	}
	writeStatus(a.out, s)
	return nil
}

func writeStatus(w io.Writer, s service.Status) {
	st := s.State
	fmt.Fprintln(w, "Window advisor status")
	fmt.Fprintf(w, "  Window:            %s\n", st.WindowState)
	fmt.Fprintf(w, "  Mode:              %s\n", st.Mode)
	fmt.Fprintf(w, "  Last notification: %s\n", st.LastNotificationType)
	if st.LastNotificationTime != nil {
		fmt.Fprintf(w, "  Notified at:       %s\n", formatTime(*st.LastNotificationTime))
	}
	if !st.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "  Updated at:        %s\n", formatTime(st.UpdatedAt))
	}

	fmt.Fprintln(w, "\nRecent readings:")
	if len(s.Readings) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, r := range s.Readings {
		fmt.Fprintf(w, "  %s  %s  (high %s, low %s)\n",
			formatTime(r.Timestamp), decision.FormatTemp(&r.CurrentTemp),
			decision.FormatTemp(r.DailyHighForecast), decision.FormatTemp(r.DailyLowForecast))
	}

	fmt.Fprintln(w, "\nRecent notifications:")
	if len(s.Notifications) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, n := range s.Notifications {
		outcome := "sent"
		if !n.SentSuccessfully {
			outcome = "failed"
			if n.ErrorMessage != nil {
				outcome += ": " + *n.ErrorMessage
			}
		}
		fmt.Fprintf(w, "  %s  %s at %s  [%s]\n",
			formatTime(n.Timestamp), strings.ReplaceAll(n.NotificationType, "_", " "),
			decision.FormatTemp(&n.CurrentTemp), outcome)
	}
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
