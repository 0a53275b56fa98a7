package services

import (
	"net/http"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/appconfig"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/rs/zerolog"
)

func (svc *Service) attendanceConfig() appconfig.AttendanceConfig {
	if svc.Config == nil {
		return appconfig.AttendanceConfig{DayStart: 9 * time.Hour, Grace: 15 * time.Minute, Timezone: "UTC"}
	}
	return svc.Config.Attendance
}

// attendanceBody reads the optional notes of a check-in or check-out.
func attendanceBody(w http.ResponseWriter, r *http.Request) (models.AttendanceRequest, bool) {
	var payload models.AttendanceRequest
	if r.ContentLength != 0 && !decode(w, r, &payload) {
		return payload, false
	}
	if err := payload.Validate(); err != nil {
		fail(w, r, err, "Invalid attendance request")
		return payload, false
	}
	return payload, true
}

// CheckInService records the caller's arrival for today. Arriving after the start of
// the working day plus the grace period is recorded as late.
func (svc *Service) CheckInService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}
	payload, ok := attendanceBody(w, r)
	if !ok {
		return
	}

	cfg := svc.attendanceConfig()
	now := svc.now().In(cfg.Location())

	attendance, err := svc.DB.CheckIn(r.Context(), models.Attendance{
		UserID:   c.ID,
		WorkDate: now,
		CheckIn:  &now,
		Status:   models.CheckInStatus(now, cfg.DayStart, cfg.Grace),
		Notes:    payload.Notes,
	})
	if err != nil {
		fail(w, r, err, "Failed to check in")
		return
	}

	logger.Info().Str("user_id", c.ID.String()).Str("status", attendance.Status).Msg("Checked in")
	WriteResponse(w, http.StatusCreated, attendance)
}

// CheckOutService records the caller's departure and computes hours worked.
func (svc *Service) CheckOutService(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	c, ok := callerFrom(w, r)
	if !ok {
		return
	}
	payload, ok := attendanceBody(w, r)
	if !ok {
		return
	}

	now := svc.now().In(svc.attendanceConfig().Location())
	attendance, err := svc.DB.CheckOut(r.Context(), c.ID, now, payload.Notes)
	if err != nil {
		fail(w, r, err, "Failed to check out")
		return
	}

	logger.Info().Str("user_id", c.ID.String()).Float64("hours_worked", attendance.HoursWorked).Msg("Checked out")
	WriteResponse(w, http.StatusOK, attendance)
}

// ListAttendanceService lists attendance records in a date range. Agents see their
// own; managers and admins may pass user_id.
func (svc *Service) ListAttendanceService(w http.ResponseWriter, r *http.Request) {
	c, ok := callerFrom(w, r)
	if !ok {
		return
	}

	userID, err := queryUUID(r, "user_id")
	if err != nil {
		fail(w, r, err, "Invalid attendance filter")
		return
	}
	filter := models.AttendanceFilter{UserID: c.ID}
	if userID != nil && *userID != c.ID {
		if !c.privileged() {
			HandleErrResponse(w, http.StatusForbidden, errForbidden)
			return
		}
		filter.UserID = *userID
	}

	if filter.From, filter.To, err = dateRange(r, svc.now()); err != nil {
		fail(w, r, err, "Invalid attendance filter")
		return
	}
	if err := filter.Validate(); err != nil {
		fail(w, r, err, "Invalid attendance filter")
		return
	}

	records, err := svc.DB.ListAttendance(r.Context(), filter)
	if err != nil {
		fail(w, r, err, "Failed to retrieve attendance")
		return
	}
	if records == nil {
		records = []models.Attendance{}
	}

	WriteResponse(w, http.StatusOK, records)
}
