package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
)

const notificationColumns = `id, user_id, entity_type, entity_id, title, message, scheduled_for,
	delivered, delivered_at, read_at, cancelled, created_at`

func scanNotification(row interface{ Scan(...interface{}) error }) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.EntityType, &n.EntityID, &n.Title, &n.Message, &n.ScheduledFor,
		&n.Delivered, &n.DeliveredAt, &n.ReadAt, &n.Cancelled, &n.CreatedAt)
	return n, err
}

func notificationChange(action string, n models.Notification) events.ChangeEvent {
	return events.ChangeEvent{Table: TableNotifications, Action: action, RecordID: n.ID, UserID: &n.UserID, EntityID: &n.EntityID}
}

func (w *CRMDB) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]models.Notification, error) {
	rows, err := w.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning notifications: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// ListNotifications retrieves a user's delivered notifications, newest first.
func (w *CRMDB) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 AND delivered = true AND cancelled = false`
	if unreadOnly {
		query += ` AND read_at IS NULL`
	}
	return w.queryNotifications(ctx, query+` ORDER BY scheduled_for DESC LIMIT 200`, userID)
}

// PendingNotifications retrieves undelivered, uncancelled notifications scheduled in [from, to].
func (w *CRMDB) PendingNotifications(ctx context.Context, from, to time.Time) ([]models.Notification, error) {
	return w.queryNotifications(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE delivered = false AND cancelled = false AND scheduled_for BETWEEN $1 AND $2
		ORDER BY scheduled_for`, from, to)
}

// GetNotification retrieves a single notification, or nil if it does not exist.
func (w *CRMDB) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	n, err := scanNotification(w.DB.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning notification: %w", err)
	}
	return &n, nil
}

// MarkDelivered claims a pending notification for delivery. It reports false when the
// notification was already delivered or has been cancelled.
func (w *CRMDB) MarkDelivered(ctx context.Context, n models.Notification, at time.Time) (bool, error) {
	res, err := w.DB.ExecContext(ctx, `
		UPDATE notifications SET delivered = true, delivered_at = $1
		WHERE id = $2 AND delivered = false AND cancelled = false`, at, n.ID)
	if err != nil {
		return false, fmt.Errorf("error marking notification delivered: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	w.notify(ctx, notificationChange(events.ActionUpdate, n))
	return true, nil
}

// MarkRead marks one of the user's notifications read.
func (w *CRMDB) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error) {
	res, err := w.DB.ExecContext(ctx, `
		UPDATE notifications SET read_at = $1 WHERE id = $2 AND user_id = $3 AND read_at IS NULL`, at, id, userID)
	if err != nil {
		return false, fmt.Errorf("error marking notification read: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected > 0 {
		w.notify(ctx, events.ChangeEvent{Table: TableNotifications, Action: events.ActionUpdate, RecordID: id, UserID: &userID})
	}
	return affected > 0, nil
}

// MarkAllRead marks every delivered notification of the user read and returns how many changed.
func (w *CRMDB) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res, err := w.DB.ExecContext(ctx, `
		UPDATE notifications SET read_at = $1 WHERE user_id = $2 AND delivered = true AND read_at IS NULL`, at, userID)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected > 0 {
		// A bulk update has no single record, subscribers go by the user
		w.notify(ctx, events.ChangeEvent{Table: TableNotifications, Action: events.ActionUpdate, RecordID: uuid.Nil, UserID: &userID})
	}
	return affected, nil
}

// insertReminder adds n to tx, filling its id and creation time.
func (w *CRMDB) insertReminder(ctx context.Context, tx *sql.Tx, n *models.Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()
	err := w.execQuery(ctx, tx, `
		INSERT INTO notifications (id, user_id, entity_type, entity_id, title, message, scheduled_for, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.EntityType, n.EntityID, n.Title, n.Message, n.ScheduledFor, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reminder: %w", err)
	}
	return nil
}

// cancelReminders cancels every undelivered notification of an entity within tx.
func (w *CRMDB) cancelReminders(ctx context.Context, tx *sql.Tx, entityID uuid.UUID) error {
	err := w.execQuery(ctx, tx, `
		UPDATE notifications SET cancelled = true WHERE entity_id = $1 AND delivered = false`, entityID)
	if err != nil {
		return fmt.Errorf("error cancelling reminders: %w", err)
	}
	return nil
}

// CreateNotification schedules a standalone notification.
func (w *CRMDB) CreateNotification(ctx context.Context, n models.Notification) (*models.Notification, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	if err := w.insertReminder(ctx, tx, &n); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, notificationChange(events.ActionInsert, n))
	return &n, nil
}
