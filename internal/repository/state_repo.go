package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"window_advisor/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	appStateRowID = 1

	insertOrUpdateStateSQL = `
		INSERT INTO app_state (id, window_state, mode, last_notification_type, last_notification_time, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			window_state=excluded.window_state,
			mode=excluded.mode,
			last_notification_type=excluded.last_notification_type,
			last_notification_time=excluded.last_notification_time,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, window_state, mode, last_notification_type, last_notification_time, updated_at
		FROM app_state WHERE id=?
	`
)

// Save updates or inserts the app_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state models.AppState) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	lastType := state.LastNotificationType
	if lastType == "" {
		lastType = models.NotificationNone
	}

	var lastTime any
	if state.LastNotificationTime != nil {
		lastTime = state.LastNotificationTime.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateStateSQL,
		appStateRowID,
		state.WindowState,
		state.Mode,
		lastType,
		lastTime,
		tsUTC,
	)
	return err
}

// Load fetches the single app_state row (id=1). A missing row yields a zero
// AppState (ID 0) and no error.
func (r *StateSQLite) Load(ctx context.Context) (models.AppState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, appStateRowID)

	var (
		s        models.AppState
		lastTime sql.NullTime
	)
	if err := row.Scan(
		&s.ID,
		&s.WindowState,
		&s.Mode,
		&s.LastNotificationType,
		&lastTime,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AppState{}, nil // no state yet
		}
		return models.AppState{}, err
	}

	if lastTime.Valid {
		t := lastTime.Time.UTC()
		s.LastNotificationTime = &t
	}
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
