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

const followUpColumns = `id, lead_id, assigned_to, type, due_date, status, notes, completed_at, reminder_minutes, created_at`

func scanFollowUp(row interface{ Scan(...interface{}) error }) (models.FollowUp, error) {
	var f models.FollowUp
	err := row.Scan(&f.ID, &f.LeadID, &f.AssignedTo, &f.Type, &f.DueDate, &f.Status, &f.Notes, &f.CompletedAt, &f.ReminderMinutes, &f.CreatedAt)
	return f, err
}

func followUpChange(action string, f models.FollowUp) events.ChangeEvent {
	return events.ChangeEvent{Table: TableFollowUps, Action: action, RecordID: f.ID, UserID: &f.AssignedTo, EntityID: &f.LeadID, Status: f.Status}
}

// ListFollowUps retrieves follow-ups matching the filter in due date order.
func (w *CRMDB) ListFollowUps(ctx context.Context, f models.FollowUpFilter) ([]models.FollowUp, error) {
	q := where{}
	if f.AssignedTo != nil {
		q.add("assigned_to = $%d", *f.AssignedTo)
	}
	if f.LeadID != nil {
		q.add("lead_id = $%d", *f.LeadID)
	}
	if f.Status != "" {
		q.add("status = $%d", f.Status)
	}
	if f.DueBefore != nil {
		q.add("due_date < $%d", *f.DueBefore)
	}

	rows, err := w.DB.QueryContext(ctx, `SELECT `+followUpColumns+` FROM follow_ups`+q.String()+` ORDER BY due_date`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving follow-ups: %w", err)
	}
	defer rows.Close()

	followUps := []models.FollowUp{}
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning follow-ups: %w", err)
		}
		followUps = append(followUps, f)
	}
	return followUps, rows.Err()
}

// GetFollowUp retrieves a single follow-up, or nil if it does not exist.
func (w *CRMDB) GetFollowUp(ctx context.Context, id uuid.UUID) (*models.FollowUp, error) {
	f, err := scanFollowUp(w.DB.QueryRowContext(ctx, `SELECT `+followUpColumns+` FROM follow_ups WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning follow-up: %w", err)
	}
	return &f, nil
}

// CreateFollowUp inserts a follow-up and, when given, its reminder in one transaction.
func (w *CRMDB) CreateFollowUp(ctx context.Context, f models.FollowUp, reminder *models.Notification) (*models.FollowUp, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	f.ID = uuid.New()
	f.CreatedAt = time.Now().UTC()

	err = w.execQuery(ctx, tx, `
		INSERT INTO follow_ups (id, lead_id, assigned_to, type, due_date, status, notes, completed_at, reminder_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		f.ID, f.LeadID, f.AssignedTo, f.Type, f.DueDate, f.Status, f.Notes, f.CompletedAt, f.ReminderMinutes, f.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error inserting follow-up")
	}

	if reminder != nil {
		reminder.EntityID = f.ID
		if err := w.insertReminder(ctx, tx, reminder); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, followUpChange(events.ActionInsert, f))
	if reminder != nil {
		w.notify(ctx, notificationChange(events.ActionInsert, *reminder))
	}
	return &f, nil
}

// UpdateFollowUp saves a follow-up. Pending reminders are replaced by reminder, or
// cancelled when reminder is nil.
func (w *CRMDB) UpdateFollowUp(ctx context.Context, f models.FollowUp, reminder *models.Notification) (*models.FollowUp, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	err = w.execQuery(ctx, tx, `
		UPDATE follow_ups SET type = $1, due_date = $2, status = $3, notes = $4, completed_at = $5, assigned_to = $6,
			reminder_minutes = $7
		WHERE id = $8`,
		f.Type, f.DueDate, f.Status, f.Notes, f.CompletedAt, f.AssignedTo, f.ReminderMinutes, f.ID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error updating follow-up: %w", err)
	}

	if err := w.replaceReminder(ctx, tx, f.ID, reminder); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, followUpChange(events.ActionUpdate, f))
	if reminder != nil {
		w.notify(ctx, notificationChange(events.ActionInsert, *reminder))
	}
	return &f, nil
}

// DeleteFollowUp deletes a follow-up and cancels its pending reminders.
func (w *CRMDB) DeleteFollowUp(ctx context.Context, f models.FollowUp) error {
	if err := w.deleteWithReminders(ctx, `DELETE FROM follow_ups WHERE id = $1`, f.ID); err != nil {
		return err
	}
	w.notify(ctx, followUpChange(events.ActionDelete, f))
	return nil
}

const meetingColumns = `id, lead_id, organizer, title, location, meeting_link, start_time, end_time, status, notes, reminder_minutes, created_at`

func scanMeeting(row interface{ Scan(...interface{}) error }) (models.Meeting, error) {
	var m models.Meeting
	err := row.Scan(&m.ID, &m.LeadID, &m.Organizer, &m.Title, &m.Location, &m.MeetingLink,
		&m.StartTime, &m.EndTime, &m.Status, &m.Notes, &m.ReminderMinutes, &m.CreatedAt)
	return m, err
}

func meetingChange(action string, m models.Meeting) events.ChangeEvent {
	return events.ChangeEvent{Table: TableMeetings, Action: action, RecordID: m.ID, UserID: &m.Organizer, EntityID: &m.LeadID, Status: m.Status}
}

// ListMeetings retrieves meetings starting in [from, to], restricted to an organizer when set.
func (w *CRMDB) ListMeetings(ctx context.Context, organizer *uuid.UUID, from, to *time.Time) ([]models.Meeting, error) {
	q := where{}
	if organizer != nil {
		q.add("organizer = $%d", *organizer)
	}
	if from != nil {
		q.add("start_time >= $%d", *from)
	}
	if to != nil {
		q.add("start_time <= $%d", *to)
	}

	rows, err := w.DB.QueryContext(ctx, `SELECT `+meetingColumns+` FROM meetings`+q.String()+` ORDER BY start_time`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving meetings: %w", err)
	}
	defer rows.Close()

	meetings := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning meetings: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// GetMeeting retrieves a single meeting, or nil if it does not exist.
func (w *CRMDB) GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	m, err := scanMeeting(w.DB.QueryRowContext(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning meeting: %w", err)
	}
	return &m, nil
}

// CreateMeeting inserts a meeting and, when given, its reminder in one transaction.
func (w *CRMDB) CreateMeeting(ctx context.Context, m models.Meeting, reminder *models.Notification) (*models.Meeting, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	m.ID = uuid.New()
	m.CreatedAt = time.Now().UTC()

	err = w.execQuery(ctx, tx, `
		INSERT INTO meetings (id, lead_id, organizer, title, location, meeting_link, start_time, end_time, status, notes,
			reminder_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.ID, m.LeadID, m.Organizer, m.Title, m.Location, m.MeetingLink, m.StartTime, m.EndTime, m.Status, m.Notes,
		m.ReminderMinutes, m.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error inserting meeting")
	}

	if reminder != nil {
		reminder.EntityID = m.ID
		if err := w.insertReminder(ctx, tx, reminder); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, meetingChange(events.ActionInsert, m))
	if reminder != nil {
		w.notify(ctx, notificationChange(events.ActionInsert, *reminder))
	}
	return &m, nil
}

// UpdateMeeting saves a meeting, replacing or cancelling its pending reminders.
func (w *CRMDB) UpdateMeeting(ctx context.Context, m models.Meeting, reminder *models.Notification) (*models.Meeting, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	err = w.execQuery(ctx, tx, `
		UPDATE meetings SET title = $1, location = $2, meeting_link = $3, start_time = $4, end_time = $5,
			status = $6, notes = $7, organizer = $8, reminder_minutes = $9
		WHERE id = $10`,
		m.Title, m.Location, m.MeetingLink, m.StartTime, m.EndTime, m.Status, m.Notes, m.Organizer, m.ReminderMinutes, m.ID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error updating meeting: %w", err)
	}

	if err := w.replaceReminder(ctx, tx, m.ID, reminder); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, meetingChange(events.ActionUpdate, m))
	if reminder != nil {
		w.notify(ctx, notificationChange(events.ActionInsert, *reminder))
	}
	return &m, nil
}

// DeleteMeeting deletes a meeting and cancels its pending reminders.
func (w *CRMDB) DeleteMeeting(ctx context.Context, m models.Meeting) error {
	if err := w.deleteWithReminders(ctx, `DELETE FROM meetings WHERE id = $1`, m.ID); err != nil {
		return err
	}
	w.notify(ctx, meetingChange(events.ActionDelete, m))
	return nil
}

// replaceReminder cancels pending reminders of an entity and inserts reminder when set.
func (w *CRMDB) replaceReminder(ctx context.Context, tx *sql.Tx, entityID uuid.UUID, reminder *models.Notification) error {
	if err := w.cancelReminders(ctx, tx, entityID); err != nil {
		return err
	}
	if reminder == nil {
		return nil
	}
	reminder.EntityID = entityID
	return w.insertReminder(ctx, tx, reminder)
}

// deleteWithReminders runs a single-row delete and cancels the row's pending reminders.
func (w *CRMDB) deleteWithReminders(ctx context.Context, query string, id uuid.UUID) error {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	if err := w.cancelReminders(ctx, tx, id); err != nil {
		tx.Rollback()
		return err
	}

	if err := w.execQuery(ctx, tx, query, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("error executing delete query: %w", err)
	}

	if err := w.CommitTransaction(tx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}
