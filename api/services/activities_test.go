package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReminderFor(t *testing.T) {
	svc, _ := newTestService()
	user := uuid.New()

	n := svc.reminderFor(user, models.EntityFollowUp, "t", "m", testNow.Add(2*time.Hour), 0)
	if assert.NotNil(t, n) {
		assert.Equal(t, testNow.Add(2*time.Hour-models.DefaultReminderMinutes*time.Minute), n.ScheduledFor)
		assert.Equal(t, user, n.UserID)
	}

	// Lead time already passed: remind now
	n = svc.reminderFor(user, models.EntityFollowUp, "t", "m", testNow.Add(10*time.Minute), 60)
	if assert.NotNil(t, n) {
		assert.Equal(t, testNow, n.ScheduledFor)
	}

	assert.Nil(t, svc.reminderFor(user, models.EntityFollowUp, "t", "m", testNow.Add(-time.Minute), 0), "already due")
	assert.Nil(t, svc.reminderFor(user, models.EntityFollowUp, "t", "m", testNow.Add(time.Hour), -1), "disabled")
}

func TestCreateFollowUpWithReminder(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	leadID := uuid.New()
	claims := claimsFor(agentID, "agent")
	due := testNow.Add(24 * time.Hour)

	mockDB.On("GetLead", mock.Anything, leadID).Return(&models.Lead{ID: leadID, AssignedTo: agentID}, nil)
	mockDB.On("CreateFollowUp", mock.Anything,
		mock.MatchedBy(func(f models.FollowUp) bool {
			return f.AssignedTo == agentID && f.Status == models.FollowUpStatusPending
		}),
		mock.MatchedBy(func(n *models.Notification) bool {
			return n != nil && n.UserID == agentID && n.ScheduledFor.Equal(due.Add(-15*time.Minute))
		}),
	).Return(&models.FollowUp{ID: uuid.New(), LeadID: leadID}, nil)

	rr := httptest.NewRecorder()
	svc.CreateFollowUpService(rr, newRequest(t, http.MethodPost, "/follow-ups", models.FollowUp{
		LeadID:          leadID,
		Type:            models.FollowUpTypeCall,
		DueDate:         due,
		ReminderMinutes: 15,
	}, &claims, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestCreateFollowUpOnOthersLead(t *testing.T) {
	svc, mockDB := newTestService()
	leadID := uuid.New()
	claims := claimsFor(uuid.New(), "agent")
	mockDB.On("GetLead", mock.Anything, leadID).Return(&models.Lead{ID: leadID, AssignedTo: uuid.New()}, nil)

	rr := httptest.NewRecorder()
	svc.CreateFollowUpService(rr, newRequest(t, http.MethodPost, "/follow-ups", models.FollowUp{
		LeadID:  leadID,
		Type:    models.FollowUpTypeEmail,
		DueDate: testNow.Add(time.Hour),
	}, &claims, nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	mockDB.AssertNotCalled(t, "CreateFollowUp")
}

func TestCompleteFollowUp(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	leadID := uuid.New()
	followUpID := uuid.New()
	claims := claimsFor(agentID, "agent")

	mockDB.On("GetFollowUp", mock.Anything, followUpID).Return(&models.FollowUp{
		ID: followUpID, LeadID: leadID, AssignedTo: agentID, Status: models.FollowUpStatusPending,
	}, nil)
	mockDB.On("UpdateFollowUp", mock.Anything, mock.MatchedBy(func(f models.FollowUp) bool {
		return f.Status == models.FollowUpStatusCompleted && f.CompletedAt != nil
	}), (*models.Notification)(nil)).Return(&models.FollowUp{
		ID: followUpID, LeadID: leadID, Status: models.FollowUpStatusCompleted,
	}, nil)
	mockDB.On("TouchLead", mock.Anything, leadID, testNow).Return(nil)

	rr := httptest.NewRecorder()
	svc.CompleteFollowUpService(rr, newRequest(t, http.MethodPost, "/follow-ups/x/complete", nil, &claims,
		map[string]string{"follow-up-id": followUpID.String()}))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestCreateMeetingPastStartHasNoReminder(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	leadID := uuid.New()
	claims := claimsFor(agentID, "agent")

	mockDB.On("GetLead", mock.Anything, leadID).Return(&models.Lead{ID: leadID, AssignedTo: agentID}, nil)
	mockDB.On("CreateMeeting", mock.Anything, mock.AnythingOfType("models.Meeting"), (*models.Notification)(nil)).
		Return(&models.Meeting{ID: uuid.New()}, nil)

	rr := httptest.NewRecorder()
	svc.CreateMeetingService(rr, newRequest(t, http.MethodPost, "/meetings", models.Meeting{
		LeadID:    leadID,
		Title:     "Quarterly review",
		StartTime: testNow.Add(-2 * time.Hour),
		EndTime:   testNow.Add(-time.Hour),
	}, &claims, nil))

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestUpdateFollowUpKeepsLeadTime(t *testing.T) {
	svc, mockDB := newTestService()
	agentID := uuid.New()
	followUpID := uuid.New()
	claims := claimsFor(agentID, "agent")
	due := testNow.Add(24 * time.Hour)

	mockDB.On("GetFollowUp", mock.Anything, followUpID).Return(&models.FollowUp{
		ID: followUpID, LeadID: uuid.New(), AssignedTo: agentID, Type: models.FollowUpTypeCall,
		DueDate: due, Status: models.FollowUpStatusPending, ReminderMinutes: 45,
	}, nil)
	mockDB.On("UpdateFollowUp", mock.Anything,
		mock.MatchedBy(func(f models.FollowUp) bool {
			return f.ReminderMinutes == 45 && f.Notes != nil && *f.Notes == "Asked for pricing"
		}),
		mock.MatchedBy(func(n *models.Notification) bool {
			return n != nil && n.ScheduledFor.Equal(due.Add(-45*time.Minute))
		}),
	).Return(&models.FollowUp{ID: followUpID, Status: models.FollowUpStatusPending}, nil)

	// Only the notes change, the body carries no reminderMinutes
	body := map[string]interface{}{
		"type": models.FollowUpTypeCall, "dueDate": due, "status": models.FollowUpStatusPending, "notes": "Asked for pricing",
	}
	rr := httptest.NewRecorder()
	svc.UpdateFollowUpService(rr, newRequest(t, http.MethodPut, "/follow-ups/"+followUpID.String(), body, &claims,
		map[string]string{"follow-up-id": followUpID.String()}))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}

func TestManagerReassignsMeeting(t *testing.T) {
	svc, mockDB := newTestService()
	organizer := uuid.New()
	newOrganizer := uuid.New()
	meetingID := uuid.New()
	claims := claimsFor(uuid.New(), "manager")
	start := testNow.Add(48 * time.Hour)

	mockDB.On("GetMeeting", mock.Anything, meetingID).Return(&models.Meeting{
		ID: meetingID, LeadID: uuid.New(), Organizer: organizer, Title: "Demo",
		StartTime: start, EndTime: start.Add(time.Hour), Status: models.MeetingStatusScheduled, ReminderMinutes: 60,
	}, nil)
	mockDB.On("UpdateMeeting", mock.Anything,
		mock.MatchedBy(func(m models.Meeting) bool {
			return m.Organizer == newOrganizer && m.ReminderMinutes == 60
		}),
		mock.MatchedBy(func(n *models.Notification) bool {
			return n != nil && n.UserID == newOrganizer && n.ScheduledFor.Equal(start.Add(-time.Hour))
		}),
	).Return(&models.Meeting{ID: meetingID, Organizer: newOrganizer, Status: models.MeetingStatusScheduled}, nil)

	body := map[string]interface{}{
		"organizer": newOrganizer, "title": "Demo", "startTime": start, "endTime": start.Add(time.Hour),
		"status": models.MeetingStatusScheduled,
	}
	rr := httptest.NewRecorder()
	svc.UpdateMeetingService(rr, newRequest(t, http.MethodPut, "/meetings/"+meetingID.String(), body, &claims,
		map[string]string{"meeting-id": meetingID.String()}))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockDB.AssertExpectations(t)
}
