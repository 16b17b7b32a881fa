package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"window_advisor/internal/models"
)

type NotificationSQLite struct {
	db *sql.DB
}

func NewNotificationSQLite(db *sql.DB) *NotificationSQLite { return &NotificationSQLite{db: db} }

const (
	insertNotificationSQL = `
		INSERT INTO notifications (id, timestamp, notification_type, current_temp, forecast_high, forecast_low, message, sent_successfully, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRecentNotificationsSQL = `
		SELECT id, timestamp, notification_type, current_temp, forecast_high, forecast_low, message, sent_successfully, error_message
		FROM notifications
		ORDER BY timestamp DESC
		LIMIT ?
	`
)

// Append inserts a notification attempt. If ID or Timestamp are empty, they're set.
func (r *NotificationSQLite) Append(ctx context.Context, n models.NotificationRecord) error {
	if !models.ValidNotificationType(n.NotificationType) {
		return fmt.Errorf("invalid notification type %q", n.NotificationType)
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.Timestamp = stampUTC(n.Timestamp)

	var errMsg any
	if n.ErrorMessage != nil {
		errMsg = *n.ErrorMessage
	}

	_, err := r.db.ExecContext(ctx, insertNotificationSQL,
		n.ID,
		n.Timestamp,
		n.NotificationType,
		n.CurrentTemp,
		nullableFloat(n.ForecastHigh),
		nullableFloat(n.ForecastLow),
		n.Message,
		n.SentSuccessfully,
		errMsg,
	)
	return err
}

// ListRecent returns up to limit notification attempts, newest first.
func (r *NotificationSQLite) ListRecent(ctx context.Context, limit int) ([]models.NotificationRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectRecentNotificationsSQL, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.NotificationRecord, 0, clampLimit(limit))
	for rows.Next() {
		var (
			n         models.NotificationRecord
			high, low sql.NullFloat64
			errMsg    sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.Timestamp, &n.NotificationType, &n.CurrentTemp,
			&high, &low, &n.Message, &n.SentSuccessfully, &errMsg); err != nil {
			return nil, err
		}
		n.Timestamp = n.Timestamp.UTC()
		n.ForecastHigh = floatPtr(high)
		n.ForecastLow = floatPtr(low)
		if errMsg.Valid {
			s := errMsg.String
			n.ErrorMessage = &s
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
