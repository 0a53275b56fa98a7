package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
)

var (
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("not checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
)

const attendanceColumns = `id, user_id, work_date, check_in, check_out, status, hours_worked, notes`

func scanAttendance(row interface{ Scan(...interface{}) error }) (models.Attendance, error) {
	var a models.Attendance
	err := row.Scan(&a.ID, &a.UserID, &a.WorkDate, &a.CheckIn, &a.CheckOut, &a.Status, &a.HoursWorked, &a.Notes)
	return a, err
}

func attendanceChange(action string, a models.Attendance) events.ChangeEvent {
	return events.ChangeEvent{Table: TableAttendance, Action: action, RecordID: a.ID, UserID: &a.UserID, Status: a.Status}
}

// dateOnly truncates t to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GetAttendance retrieves a user's record for the day of workDate, or nil.
func (w *CRMDB) GetAttendance(ctx context.Context, userID uuid.UUID, workDate time.Time) (*models.Attendance, error) {
	a, err := scanAttendance(w.DB.QueryRowContext(ctx, `SELECT `+attendanceColumns+` FROM attendance
		WHERE user_id = $1 AND work_date = $2`, userID, dateOnly(workDate).Format("2006-01-02")))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning attendance: %w", err)
	}
	return &a, nil
}

// CheckIn creates the day's attendance record. It fails with ErrAlreadyCheckedIn
// when a record exists for the user and day.
func (w *CRMDB) CheckIn(ctx context.Context, a models.Attendance) (*models.Attendance, error) {
	a.ID = uuid.New()
	a.WorkDate = dateOnly(a.WorkDate)

	res, err := w.DB.ExecContext(ctx, `
		INSERT INTO attendance (id, user_id, work_date, check_in, status, hours_worked, notes)
		VALUES ($1, $2, $3, $4, $5, 0, $6)
		ON CONFLICT (user_id, work_date) DO NOTHING`,
		a.ID, a.UserID, a.WorkDate.Format("2006-01-02"), a.CheckIn, a.Status, a.Notes)
	if err != nil {
		return nil, fmt.Errorf("error inserting attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrAlreadyCheckedIn
	}

	w.notify(ctx, attendanceChange(events.ActionInsert, a))
	return &a, nil
}

// CheckOut closes the day's record for the user at checkOut.
func (w *CRMDB) CheckOut(ctx context.Context, userID uuid.UUID, checkOut time.Time, notes *string) (*models.Attendance, error) {
	a, err := w.GetAttendance(ctx, userID, checkOut)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotCheckedIn
	}
	if a.CheckOut != nil {
		return nil, ErrAlreadyCheckedOut
	}

	a.CloseDay(checkOut)
	if notes != nil {
		a.Notes = notes
	}

	_, err = w.DB.ExecContext(ctx, `
		UPDATE attendance SET check_out = $1, status = $2, hours_worked = $3, notes = $4
		WHERE id = $5 AND check_out IS NULL`,
		a.CheckOut, a.Status, a.HoursWorked, a.Notes, a.ID)
	if err != nil {
		return nil, fmt.Errorf("error updating attendance: %w", err)
	}

	w.notify(ctx, attendanceChange(events.ActionUpdate, *a))
	return a, nil
}

// ListAttendance retrieves a user's records between two dates, inclusive.
func (w *CRMDB) ListAttendance(ctx context.Context, f models.AttendanceFilter) ([]models.Attendance, error) {
	rows, err := w.DB.QueryContext(ctx, `SELECT `+attendanceColumns+` FROM attendance
		WHERE user_id = $1 AND work_date BETWEEN $2 AND $3 ORDER BY work_date DESC`,
		f.UserID, f.From.Format("2006-01-02"), f.To.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("error retrieving attendance: %w", err)
	}
	defer rows.Close()

	records := []models.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
