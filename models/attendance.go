package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceHalfDay = "half_day"
	AttendanceAbsent  = "absent"
)

// HalfDayHours is the worked time below which a checked-out day counts as a half day.
const HalfDayHours = 4.0

// Attendance is one agent's record for one working day.
type Attendance struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	WorkDate    time.Time  `json:"workDate"`
	CheckIn     *time.Time `json:"checkIn,omitempty"`
	CheckOut    *time.Time `json:"checkOut,omitempty"`
	Status      string     `json:"status"`
	HoursWorked float64    `json:"hoursWorked"`
	Notes       *string    `json:"notes,omitempty"`
}

// AttendanceRequest is the optional body of a check-in or check-out.
type AttendanceRequest struct {
	Notes *string `json:"notes,omitempty"`
}

func (r AttendanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Notes, validation.Length(0, 1000)),
	)
}

// AttendanceFilter narrows an attendance listing to a user and date range.
type AttendanceFilter struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

func (f AttendanceFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.UserID, validation.Required),
		validation.Field(&f.To, validation.Min(f.From).Error("must not be before from")),
	)
}

// CheckInStatus classifies a check-in against the configured start of the working day.
func CheckInStatus(checkIn time.Time, dayStart time.Duration, grace time.Duration) string {
	midnight := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, checkIn.Location())
	if checkIn.After(midnight.Add(dayStart + grace)) {
		return AttendanceLate
	}
	return AttendancePresent
}

// CloseDay computes hours worked and the final status once an agent checks out.
func (a *Attendance) CloseDay(checkOut time.Time) {
	a.CheckOut = &checkOut
	if a.CheckIn == nil {
		return
	}
	hours := checkOut.Sub(*a.CheckIn).Hours()
	if hours < 0 {
		hours = 0
	}
	a.HoursWorked = float64(int(hours*100+0.5)) / 100
	if a.HoursWorked < HalfDayHours {
		a.Status = AttendanceHalfDay
	}
}
