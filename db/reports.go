package db

import (
	"context"
	"fmt"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
)

const reportColumns = `id, user_id, team_type, report_date, calls_made, meetings_held, leads_generated,
	follow_ups_done, tickets_resolved, content_published, summary, created_at`

func reportFilter(f models.ReportFilter) where {
	q := where{}
	if f.UserID != nil {
		q.add("user_id = $%d", *f.UserID)
	}
	if f.TeamType != "" {
		q.add("team_type = $%d", f.TeamType)
	}
	q.add("report_date >= $%d", f.From.Format("2006-01-02"))
	q.add("report_date <= $%d", f.To.Format("2006-01-02"))
	return q
}

// ListReports retrieves daily reports matching the filter, newest first.
func (w *CRMDB) ListReports(ctx context.Context, f models.ReportFilter) ([]models.DailyReport, error) {
	q := reportFilter(f)
	rows, err := w.DB.QueryContext(ctx, `SELECT `+reportColumns+` FROM daily_reports`+q.String()+
		` ORDER BY report_date DESC, created_at DESC`, q.args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving daily reports: %w", err)
	}
	defer rows.Close()

	reports := []models.DailyReport{}
	for rows.Next() {
		var d models.DailyReport
		if err := rows.Scan(&d.ID, &d.UserID, &d.TeamType, &d.ReportDate, &d.CallsMade, &d.MeetingsHeld,
			&d.LeadsGenerated, &d.FollowUpsDone, &d.TicketsResolved, &d.ContentPublished, &d.Summary, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning daily reports: %w", err)
		}
		reports = append(reports, d)
	}
	return reports, rows.Err()
}

// SubmitReport stores a daily report. A second submission for the same user, team
// type and day replaces the counters of the first.
func (w *CRMDB) SubmitReport(ctx context.Context, d models.DailyReport) (*models.DailyReport, error) {
	tx, err := w.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	d.ID = uuid.New()
	d.CreatedAt = time.Now().UTC()
	d.ReportDate = dateOnly(d.ReportDate)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO daily_reports (id, user_id, team_type, report_date, calls_made, meetings_held, leads_generated,
			follow_ups_done, tickets_resolved, content_published, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id, team_type, report_date) DO UPDATE SET
			calls_made = EXCLUDED.calls_made, meetings_held = EXCLUDED.meetings_held,
			leads_generated = EXCLUDED.leads_generated, follow_ups_done = EXCLUDED.follow_ups_done,
			tickets_resolved = EXCLUDED.tickets_resolved, content_published = EXCLUDED.content_published,
			summary = EXCLUDED.summary
		RETURNING id, created_at`,
		d.ID, d.UserID, d.TeamType, d.ReportDate.Format("2006-01-02"), d.CallsMade, d.MeetingsHeld, d.LeadsGenerated,
		d.FollowUpsDone, d.TicketsResolved, d.ContentPublished, d.Summary, d.CreatedAt).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, conflictOr(err, "error inserting daily report")
	}

	if err := w.CommitTransaction(tx); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	w.notify(ctx, events.ChangeEvent{Table: TableDailyReports, Action: events.ActionInsert, RecordID: d.ID, UserID: &d.UserID})
	return &d, nil
}

// SummarizeReports totals report counters for the filter's team type and date range.
func (w *CRMDB) SummarizeReports(ctx context.Context, f models.ReportFilter) (*models.ReportSummary, error) {
	q := reportFilter(f)
	s := models.ReportSummary{TeamType: f.TeamType, From: f.From, To: f.To}

	err := w.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(calls_made), 0), COALESCE(SUM(meetings_held), 0),
			COALESCE(SUM(leads_generated), 0), COALESCE(SUM(follow_ups_done), 0),
			COALESCE(SUM(tickets_resolved), 0), COALESCE(SUM(content_published), 0)
		FROM daily_reports`+q.String(), q.args...).
		Scan(&s.Reports, &s.CallsMade, &s.MeetingsHeld, &s.LeadsGenerated, &s.FollowUpsDone,
			&s.TicketsResolved, &s.ContentPublished)
	if err != nil {
		return nil, fmt.Errorf("error summarizing daily reports: %w", err)
	}
	return &s, nil
}
