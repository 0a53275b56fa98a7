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

const ticketColumns = `id, client_id, subject, description, requester_email, assigned_to, status, priority,
	channel, resolved_at, created_at, updated_at`

func scanTicket(row interface{ Scan(...interface{}) error }) (models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(&t.ID, &t.ClientID, &t.Subject, &t.Description, &t.RequesterEmail, &t.AssignedTo,
		&t.Status, &t.Priority, &t.Channel, &t.ResolvedAt, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func ticketChange(action string, t models.Ticket) events.ChangeEvent {
	return events.ChangeEvent{Table: TableTickets, Action: action, RecordID: t.ID, UserID: t.AssignedTo, Status: t.Status}
}

// ListTickets retrieves tickets matching the filter, most recently updated first.
func (w *CRMDB) ListTickets(ctx context.Context, f models.TicketFilter) ([]models.Ticket, error) {
	q := where{}
	if f.AssignedTo != nil {
		q.add("assigned_to = $%d", *f.AssignedTo)
	}
	if f.Status != "" {
		q.add("status = $%d", f.Status)
	}
	if f.Priority != "" {
		q.add("priority = $%d", f.Priority)
	}
	if f.Channel != "" {
		q.add("channel = $%d", f.Channel)
	}

	rows, err := w.DB.QueryContext(ctx, `SELECT `+ticketColumns+` FROM tickets`+q.String()+` ORDER BY updated_at DESC`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving tickets: %w", err)
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning tickets: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// GetTicket retrieves a single ticket, or nil if it does not exist.
func (w *CRMDB) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	t, err := scanTicket(w.DB.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning ticket: %w", err)
	}
	return &t, nil
}

// CreateTicket inserts a ticket and, when given, an alert for its assignee.
func (w *CRMDB) CreateTicket(ctx context.Context, t models.Ticket, alert *models.Notification) (*models.Ticket, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt

	err = w.execQuery(ctx, tx, `
		INSERT INTO tickets (id, client_id, subject, description, requester_email, assigned_to, status, priority,
			channel, resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.ClientID, t.Subject, t.Description, t.RequesterEmail, t.AssignedTo, t.Status, t.Priority,
		t.Channel, t.ResolvedAt, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error inserting ticket")
	}

	if alert != nil {
		alert.EntityID = t.ID
		if err := w.insertReminder(ctx, tx, alert); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, ticketChange(events.ActionInsert, t))
	if alert != nil {
		w.notify(ctx, notificationChange(events.ActionInsert, *alert))
	}
	return &t, nil
}

// UpdateTicket saves a ticket. Closing or resolving it cancels pending alerts; a new
// alert is added when given.
func (w *CRMDB) UpdateTicket(ctx context.Context, t models.Ticket, alert *models.Notification) (*models.Ticket, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	t.UpdatedAt = time.Now().UTC()
	err = w.execQuery(ctx, tx, `
		UPDATE tickets SET client_id = $1, subject = $2, description = $3, requester_email = $4, assigned_to = $5,
			status = $6, priority = $7, channel = $8, resolved_at = $9, updated_at = $10
		WHERE id = $11`,
		t.ClientID, t.Subject, t.Description, t.RequesterEmail, t.AssignedTo, t.Status, t.Priority, t.Channel,
		t.ResolvedAt, t.UpdatedAt, t.ID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error updating ticket: %w", err)
	}

	if t.Status == models.TicketResolved || t.Status == models.TicketClosed {
		if err := w.cancelReminders(ctx, tx, t.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if alert != nil {
		alert.EntityID = t.ID
		if err := w.insertReminder(ctx, tx, alert); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, ticketChange(events.ActionUpdate, t))
	if alert != nil {
		w.notify(ctx, notificationChange(events.ActionInsert, *alert))
	}
	return &t, nil
}
