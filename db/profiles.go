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

const profileColumns = `id, full_name, email, phone, role, team_type, created_at, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.Role, &p.TeamType, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetProfile retrieves a single profile, or nil if it does not exist.
func (w *CRMDB) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	row := w.DB.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)

	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning profile: %w", err)
	}
	return &p, nil
}

// ListProfiles retrieves every profile, optionally restricted to one team.
func (w *CRMDB) ListProfiles(ctx context.Context, teamType string) ([]models.UserProfile, error) {
	q := where{}
	if teamType != "" {
		q.add("team_type = $%d", teamType)
	}

	rows, err := w.DB.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles`+q.String()+` ORDER BY full_name`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.UserProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profiles: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// EnsureProfile inserts the profile if no row exists for its id and returns the stored row.
func (w *CRMDB) EnsureProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	now := time.Now().UTC()
	res, err := w.DB.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, email, phone, role, team_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.FullName, p.Email, p.Phone, p.Role, p.TeamType, now)
	if err != nil {
		return nil, conflictOr(err, "error inserting profile")
	}

	if n, _ := res.RowsAffected(); n > 0 {
		w.notify(ctx, events.ChangeEvent{Table: TableProfiles, Action: events.ActionInsert, RecordID: p.ID, UserID: &p.ID})
	}
	return w.GetProfile(ctx, p.ID)
}

// UpdateProfile updates the editable fields of a profile.
func (w *CRMDB) UpdateProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	err = w.execQuery(ctx, tx, `
		UPDATE profiles SET full_name = $1, phone = $2, team_type = $3, role = $4, updated_at = $5
		WHERE id = $6`,
		p.FullName, p.Phone, p.TeamType, p.Role, time.Now().UTC(), p.ID)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, events.ChangeEvent{Table: TableProfiles, Action: events.ActionUpdate, RecordID: p.ID, UserID: &p.ID})
	return w.GetProfile(ctx, p.ID)
}
