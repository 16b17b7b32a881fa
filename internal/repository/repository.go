package repository

import (
	"context"
	"database/sql"

	"window_advisor/internal/models"
)

// StateRepo persists the singleton AppState row.
type StateRepo interface {
	Save(ctx context.Context, s models.AppState) error
	Load(ctx context.Context) (models.AppState, error)
}

// ReadingRepo is the append-only temperature history.
type ReadingRepo interface {
	Append(ctx context.Context, r models.TemperatureReading) error
	ListRecent(ctx context.Context, limit int) ([]models.TemperatureReading, error)
}

// NotificationRepo is the append-only notification attempt history.
type NotificationRepo interface {
	Append(ctx context.Context, n models.NotificationRecord) error
	ListRecent(ctx context.Context, limit int) ([]models.NotificationRecord, error)
}

type Repository struct {
	StateRepo        StateRepo
	ReadingRepo      ReadingRepo
	NotificationRepo NotificationRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo:        NewStateSQLite(db),
		ReadingRepo:      NewReadingSQLite(db),
		NotificationRepo: NewNotificationSQLite(db),
	}
}
