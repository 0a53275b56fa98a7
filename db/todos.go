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

const todoColumns = `id, user_id, title, description, priority, due_date, completed, completed_at, reminder_minutes, created_at`

func scanTodo(row interface{ Scan(...interface{}) error }) (models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.DueDate, &t.Completed, &t.CompletedAt, &t.ReminderMinutes, &t.CreatedAt)
	return t, err
}

func todoChange(action string, t models.Todo) events.ChangeEvent {
	status := "open"
	if t.Completed {
		status = "completed"
	}
	return events.ChangeEvent{Table: TableTodos, Action: action, RecordID: t.ID, UserID: &t.UserID, Status: status}
}

// ListTodos retrieves a user's todos, open ones first.
func (w *CRMDB) ListTodos(ctx context.Context, userID uuid.UUID) ([]models.Todo, error) {
	rows, err := w.DB.QueryContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE user_id = $1
		ORDER BY completed, due_date NULLS LAST, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning todos: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// GetTodo retrieves a single todo, or nil if it does not exist.
func (w *CRMDB) GetTodo(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	t, err := scanTodo(w.DB.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning todo: %w", err)
	}
	return &t, nil
}

// CreateTodo inserts a todo and, when given, its reminder.
func (w *CRMDB) CreateTodo(ctx context.Context, t models.Todo, reminder *models.Notification) (*models.Todo, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()

	err = w.execQuery(ctx, tx, `
		INSERT INTO todos (id, user_id, title, description, priority, due_date, completed, completed_at, reminder_minutes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.UserID, t.Title, t.Description, t.Priority, t.DueDate, t.Completed, t.CompletedAt, t.ReminderMinutes, t.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error inserting todo")
	}

	if reminder != nil {
		reminder.EntityID = t.ID
		if err := w.insertReminder(ctx, tx, reminder); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, todoChange(events.ActionInsert, t))
	if reminder != nil {
		w.notify(ctx, notificationChange(events.ActionInsert, *reminder))
	}
	return &t, nil
}

// UpdateTodo saves a todo, replacing or cancelling its pending reminders.
func (w *CRMDB) UpdateTodo(ctx context.Context, t models.Todo, reminder *models.Notification) (*models.Todo, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	err = w.execQuery(ctx, tx, `
		UPDATE todos SET title = $1, description = $2, priority = $3, due_date = $4, completed = $5, completed_at = $6,
			reminder_minutes = $7
		WHERE id = $8`,
		t.Title, t.Description, t.Priority, t.DueDate, t.Completed, t.CompletedAt, t.ReminderMinutes, t.ID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error updating todo: %w", err)
	}

	if err := w.replaceReminder(ctx, tx, t.ID, reminder); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, todoChange(events.ActionUpdate, t))
	if reminder != nil {
		w.notify(ctx, notificationChange(events.ActionInsert, *reminder))
	}
	return &t, nil
}

// DeleteTodo deletes a todo and cancels its pending reminders.
func (w *CRMDB) DeleteTodo(ctx context.Context, t models.Todo) error {
	if err := w.deleteWithReminders(ctx, `DELETE FROM todos WHERE id = $1`, t.ID); err != nil {
		return err
	}
	w.notify(ctx, todoChange(events.ActionDelete, t))
	return nil
}
