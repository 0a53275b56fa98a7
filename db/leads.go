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

const leadColumns = `id, client_id, assigned_to, title, contact_name, email, phone, source, status,
	deal_value, score, temperature, notes, last_contacted_at, created_at, updated_at`

func scanLead(row interface{ Scan(...interface{}) error }) (models.Lead, error) {
	var l models.Lead
	err := row.Scan(&l.ID, &l.ClientID, &l.AssignedTo, &l.Title, &l.ContactName, &l.Email, &l.Phone,
		&l.Source, &l.Status, &l.DealValue, &l.Score, &l.Temperature, &l.Notes, &l.LastContactedAt,
		&l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func leadChange(action string, l models.Lead) events.ChangeEvent {
	return events.ChangeEvent{Table: TableLeads, Action: action, RecordID: l.ID, UserID: &l.AssignedTo, Status: l.Status}
}

// ListLeads retrieves leads matching the filter, most recently updated first.
func (w *CRMDB) ListLeads(ctx context.Context, f models.LeadFilter) ([]models.Lead, error) {
	q := where{}
	if f.AssignedTo != nil {
		q.add("assigned_to = $%d", *f.AssignedTo)
	}
	if f.Status != "" {
		q.add("status = $%d", f.Status)
	}
	if f.Temperature != "" {
		q.add("temperature = $%d", f.Temperature)
	}
	if f.Search != "" {
		q.add("(title ILIKE $%[1]d OR contact_name ILIKE $%[1]d OR email ILIKE $%[1]d)", "%"+f.Search+"%")
	}

	query := `SELECT ` + leadColumns + ` FROM leads` + q.String() + ` ORDER BY updated_at DESC`
	query += q.page(f.Limit, f.Offset)

	rows, err := w.DB.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving leads: %w", err)
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning leads: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// GetLead retrieves a single lead, or nil if it does not exist.
func (w *CRMDB) GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	l, err := scanLead(w.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning lead: %w", err)
	}
	return &l, nil
}

// CreateLead inserts a new lead.
func (w *CRMDB) CreateLead(ctx context.Context, l models.Lead) (*models.Lead, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	l.ID = uuid.New()
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt

	err = w.execQuery(ctx, tx, `
		INSERT INTO leads (id, client_id, assigned_to, title, contact_name, email, phone, source, status,
			deal_value, score, temperature, notes, last_contacted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		l.ID, l.ClientID, l.AssignedTo, l.Title, l.ContactName, l.Email, l.Phone, l.Source, l.Status,
		l.DealValue, l.Score, l.Temperature, l.Notes, l.LastContactedAt, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error inserting lead")
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, leadChange(events.ActionInsert, l))
	return &l, nil
}

// UpdateLead replaces the editable fields of a lead, including its score and temperature.
func (w *CRMDB) UpdateLead(ctx context.Context, l models.Lead) (*models.Lead, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	l.UpdatedAt = time.Now().UTC()
	err = w.execQuery(ctx, tx, `
		UPDATE leads
		SET client_id = $1, assigned_to = $2, title = $3, contact_name = $4, email = $5, phone = $6,
			source = $7, status = $8, deal_value = $9, score = $10, temperature = $11, notes = $12,
			last_contacted_at = $13, updated_at = $14
		WHERE id = $15`,
		l.ClientID, l.AssignedTo, l.Title, l.ContactName, l.Email, l.Phone, l.Source, l.Status,
		l.DealValue, l.Score, l.Temperature, l.Notes, l.LastContactedAt, l.UpdatedAt, l.ID)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error updating lead")
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, leadChange(events.ActionUpdate, l))
	return &l, nil
}

// DeleteLead deletes a lead together with its follow-ups and meetings, and cancels
// any reminders still pending for them.
func (w *CRMDB) DeleteLead(ctx context.Context, id uuid.UUID) error {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	err = w.execQuery(ctx, tx, `
		UPDATE notifications SET cancelled = true
		WHERE delivered = false AND entity_id IN (
			SELECT id FROM follow_ups WHERE lead_id = $1
			UNION SELECT id FROM meetings WHERE lead_id = $1)`, id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error cancelling lead reminders: %w", err)
	}

	if err = w.execQuery(ctx, tx, `DELETE FROM leads WHERE id = $1`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("error executing delete query: %w", err)
	}

	if err := w.CommitTransaction(tx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, events.ChangeEvent{Table: TableLeads, Action: events.ActionDelete, RecordID: id})
	return nil
}

// GetLeadActivity counts completed follow-ups and held meetings of a lead.
func (w *CRMDB) GetLeadActivity(ctx context.Context, id uuid.UUID) (models.LeadActivity, error) {
	var a models.LeadActivity
	err := w.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follow_ups WHERE lead_id = $1 AND status = 'completed'),
			(SELECT COUNT(*) FROM meetings WHERE lead_id = $1 AND status = 'completed')`, id).
		Scan(&a.CompletedFollowUps, &a.HeldMeetings)
	if err != nil {
		return a, fmt.Errorf("error counting lead activity: %w", err)
	}
	return a, nil
}

// TouchLead records contact with a lead now.
func (w *CRMDB) TouchLead(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := w.DB.ExecContext(ctx, `UPDATE leads SET last_contacted_at = $1, updated_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("error updating lead contact time: %w", err)
	}
	w.notify(ctx, events.ChangeEvent{Table: TableLeads, Action: events.ActionUpdate, RecordID: id})
	return nil
}
