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

const clientColumns = `id, name, company, email, phone, address, industry, created_by, created_at, updated_at`

func scanClient(row interface{ Scan(...interface{}) error }) (models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.Name, &c.Company, &c.Email, &c.Phone, &c.Address, &c.Industry,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListClients retrieves clients, restricted to those created by createdBy when it is set.
func (w *CRMDB) ListClients(ctx context.Context, createdBy *uuid.UUID) ([]models.Client, error) {
	q := where{}
	if createdBy != nil {
		q.add("created_by = $%d", *createdBy)
	}

	rows, err := w.DB.QueryContext(ctx, `SELECT `+clientColumns+` FROM clients`+q.String()+` ORDER BY name`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning clients: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// GetClient retrieves a single client, or nil if it does not exist.
func (w *CRMDB) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	c, err := scanClient(w.DB.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning client: %w", err)
	}
	return &c, nil
}

// CreateClient inserts a new client.
func (w *CRMDB) CreateClient(ctx context.Context, c models.Client) (*models.Client, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt

	err = w.execQuery(ctx, tx, `
		INSERT INTO clients (id, name, company, email, phone, address, industry, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.Company, c.Email, c.Phone, c.Address, c.Industry, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error inserting client")
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, events.ChangeEvent{Table: TableClients, Action: events.ActionInsert, RecordID: c.ID, UserID: &c.CreatedBy})
	return &c, nil
}

// UpdateClient updates an existing client's details.
func (w *CRMDB) UpdateClient(ctx context.Context, c models.Client) (*models.Client, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	c.UpdatedAt = time.Now().UTC()
	err = w.execQuery(ctx, tx, `
		UPDATE clients
		SET name = $1, company = $2, email = $3, phone = $4, address = $5, industry = $6, updated_at = $7
		WHERE id = $8`,
		c.Name, c.Company, c.Email, c.Phone, c.Address, c.Industry, c.UpdatedAt, c.ID)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error updating client")
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, events.ChangeEvent{Table: TableClients, Action: events.ActionUpdate, RecordID: c.ID, UserID: &c.CreatedBy})
	return &c, nil
}

// DeleteClient deletes a client. Leads and tickets keep their rows with the client cleared.
func (w *CRMDB) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	if err = w.execQuery(ctx, tx, `DELETE FROM clients WHERE id = $1`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("error executing delete query: %w", err)
	}

	if err := w.CommitTransaction(tx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, events.ChangeEvent{Table: TableClients, Action: events.ActionDelete, RecordID: id})
	return nil
}
