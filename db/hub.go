package db

import (
	"context"
	"fmt"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
)

// SaveHubContent stores generated marketing content.
func (w *CRMDB) SaveHubContent(ctx context.Context, c models.HubContent) (*models.HubContent, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()

	_, err := w.DB.ExecContext(ctx, `
		INSERT INTO hub_content (id, user_id, content_type, topic, tone, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.UserID, c.ContentType, c.Topic, c.Tone, c.Body, c.CreatedAt)
	if err != nil {
		return nil, conflictOr(err, "error inserting hub content")
	}

	w.notify(ctx, events.ChangeEvent{Table: TableHubContent, Action: events.ActionInsert, RecordID: c.ID, UserID: &c.UserID})
	return &c, nil
}

// ListHubContent retrieves a user's saved content, newest first, optionally of one type.
func (w *CRMDB) ListHubContent(ctx context.Context, userID uuid.UUID, contentType string) ([]models.HubContent, error) {
	q := where{}
	q.add("user_id = $%d", userID)
	if contentType != "" {
		q.add("content_type = $%d", contentType)
	}

	rows, err := w.DB.QueryContext(ctx, `SELECT id, user_id, content_type, topic, tone, body, created_at
		FROM hub_content`+q.String()+` ORDER BY created_at DESC`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving hub content: %w", err)
	}
	defer rows.Close()

	content := []models.HubContent{}
	for rows.Next() {
		var c models.HubContent
		if err := rows.Scan(&c.ID, &c.UserID, &c.ContentType, &c.Topic, &c.Tone, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning hub content: %w", err)
		}
		content = append(content, c)
	}
	return content, rows.Err()
}
