package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"window_advisor/internal/models"
	"window_advisor/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

var stateColumns = []string{"id", "window_state", "mode", "last_notification_type", "last_notification_time", "updated_at"}

func TestStateSQLite_Save_SetsUTCAndDefaultsNotificationType_WhenTimeZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	state := models.AppState{
		WindowState: models.WindowOpen,
		Mode:        models.ModeCooling,
		// LastNotificationType empty, UpdatedAt zero
	}

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_state")).
		WithArgs(
			1,
			models.WindowOpen,
			models.ModeCooling,
			models.NotificationNone,
			nil, // no last notification time
			isUTCRecent,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_ConvertsTimesToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewStateSQLite(db)

	zone := time.FixedZone("UTC+9", 9*3600)
	updated := time.Date(2024, 6, 5, 12, 34, 56, 0, zone)
	last := time.Date(2024, 6, 5, 12, 30, 0, 0, zone)

	state := models.AppState{
		WindowState:          models.WindowClosed,
		Mode:                 models.ModeHeating,
		LastNotificationType: models.NotificationCloseWindows,
		LastNotificationTime: &last,
		UpdatedAt:            updated,
	}

	exactUTC := func(want time.Time) sqlmockArgumentFunc {
		return func(v driver.Value) bool {
			tm, ok := v.(time.Time)
			return ok && tm.Equal(want) && tm.Location() == time.UTC
		}
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_state")).
		WithArgs(1, models.WindowClosed, models.ModeHeating, models.NotificationCloseWindows,
			exactUTC(last), exactUTC(updated)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_PropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_state")).
		WillReturnError(errors.New("disk full"))

	err = repository.NewStateSQLite(db).Save(context.Background(), models.AppState{WindowState: "open", Mode: "cooling"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestStateSQLite_Load_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM app_state WHERE id=?")).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repository.NewStateSQLite(db).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ID != 0 {
		t.Fatalf("expected zero state, got %+v", got)
	}
}

func TestStateSQLite_Load_ScansRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	zone := time.FixedZone("UTC-3", -3*3600)
	updated := time.Date(2025, 1, 2, 3, 4, 5, 0, zone)
	last := time.Date(2025, 1, 2, 3, 0, 0, 0, zone)

	rows := sqlmock.NewRows(stateColumns).
		AddRow(1, "open", "cooling", "open_windows", last, updated)
	mock.ExpectQuery(regexp.QuoteMeta("FROM app_state WHERE id=?")).WithArgs(1).WillReturnRows(rows)

	got, err := repository.NewStateSQLite(db).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.ID != 1 || got.WindowState != "open" || got.Mode != "cooling" || got.LastNotificationType != "open_windows" {
		t.Fatalf("unexpected state: %+v", got)
	}
	if got.LastNotificationTime == nil || !got.LastNotificationTime.Equal(last) || got.LastNotificationTime.Location() != time.UTC {
		t.Fatalf("LastNotificationTime = %v, want %v in UTC", got.LastNotificationTime, last)
	}
	if got.UpdatedAt.Location() != time.UTC || !got.UpdatedAt.Equal(updated) {
		t.Fatalf("UpdatedAt = %v, want %v in UTC", got.UpdatedAt, updated)
	}
}

func TestStateSQLite_Load_NullLastNotificationTime(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(stateColumns).AddRow(1, "closed", "heating", "none", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM app_state WHERE id=?")).WithArgs(1).WillReturnRows(rows)

	got, err := repository.NewStateSQLite(db).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.LastNotificationTime != nil {
		t.Fatalf("expected nil LastNotificationTime, got %v", got.LastNotificationTime)
	}
}

func TestStateSQLite_Load_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM app_state")).WillReturnError(errors.New("locked"))

	if _, err := repository.NewStateSQLite(db).Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// sqlmockArgumentFunc adapts a predicate to sqlmock.Argument.
type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
