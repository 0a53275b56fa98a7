package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/db"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/appconfig"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCheckInLate(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	claims := claimsFor(agentID, "agent")

	mockDB.On("CheckIn", mock.Anything, mock.MatchedBy(func(a models.Attendance) bool {
		return a.UserID == agentID && a.Status == models.AttendanceLate && a.CheckIn != nil
	})).Return(&models.Attendance{ID: uuid.New(), UserID: agentID, Status: models.AttendanceLate}, nil)

	rr := httptest.NewRecorder()
	svc.CheckInService(rr, newRequest(t, http.MethodPost, "/attendance/check-in", nil, &claims, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestCheckInOnTimeInConfiguredZone(t *testing.T) {
	svc, mockDB := newTestService()
	// 10:00 UTC is 09:00 in the Azores (UTC-1 until late March), inside the grace period
	svc.Config = &appconfig.Config{Attendance: appconfig.AttendanceConfig{
		DayStart: 9 * time.Hour, Grace: 15 * time.Minute, Timezone: "Atlantic/Azores",
	}}
	agentID := uuid.New()
	claims := claimsFor(agentID, "agent")

	mockDB.On("CheckIn", mock.Anything, mock.MatchedBy(func(a models.Attendance) bool {
		return a.Status == models.AttendancePresent && a.CheckIn != nil && a.CheckIn.Hour() == 9 &&
			a.WorkDate.Location().String() == "Atlantic/Azores"
	})).Return(&models.Attendance{ID: uuid.New(), Status: models.AttendancePresent}, nil)

	rr := httptest.NewRecorder()
	svc.CheckInService(rr, newRequest(t, http.MethodPost, "/attendance/check-in", nil, &claims, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestCheckInLateInConfiguredZone(t *testing.T) {
	svc, mockDB := newTestService()
	// 10:00 UTC is 11:00 in Lagos (UTC+1)
	svc.Config = &appconfig.Config{Attendance: appconfig.AttendanceConfig{
		DayStart: 9 * time.Hour, Grace: 15 * time.Minute, Timezone: "Africa/Lagos",
	}}
	claims := claimsFor(uuid.New(), "agent")

	mockDB.On("CheckIn", mock.Anything, mock.MatchedBy(func(a models.Attendance) bool {
		return a.Status == models.AttendanceLate && a.CheckIn.Hour() == 11
	})).Return(&models.Attendance{ID: uuid.New(), Status: models.AttendanceLate}, nil)

	rr := httptest.NewRecorder()
	svc.CheckInService(rr, newRequest(t, http.MethodPost, "/attendance/check-in", nil, &claims, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestCheckInTwice(t *testing.T) {
	svc, mockDB := newTestService()
	claims := claimsFor(uuid.New(), "agent")
	mockDB.On("CheckIn", mock.Anything, mock.Anything).Return(nil, db.ErrAlreadyCheckedIn)

	rr := httptest.NewRecorder()
	svc.CheckInService(rr, newRequest(t, http.MethodPost, "/attendance/check-in", nil, &claims, nil))

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), db.ErrAlreadyCheckedIn.Error())
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	claims := claimsFor(agentID, "agent")
	mockDB.On("CheckOut", mock.Anything, agentID, testNow, (*string)(nil)).Return(nil, db.ErrNotCheckedIn)

	rr := httptest.NewRecorder()
	svc.CheckOutService(rr, newRequest(t, http.MethodPost, "/attendance/check-out", nil, &claims, nil))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestListAttendanceForOtherUser(t *testing.T) {
	svc, mockDB := newTestService()
	other := uuid.New()
	agent := claimsFor(uuid.New(), "agent")

	rr := httptest.NewRecorder()
	svc.ListAttendanceService(rr, newRequest(t, http.MethodGet, "/attendance?user_id="+other.String(), nil, &agent, nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	mockDB.AssertNotCalled(t, "ListAttendance")

	manager := claimsFor(uuid.New(), "manager")
	mockDB.On("ListAttendance", mock.Anything, mock.MatchedBy(func(f models.AttendanceFilter) bool {
		return f.UserID == other
	})).Return([]models.Attendance{}, nil)

	rr = httptest.NewRecorder()
	svc.ListAttendanceService(rr, newRequest(t, http.MethodGet, "/attendance?user_id="+other.String(), nil, &manager, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}
