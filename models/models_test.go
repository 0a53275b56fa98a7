package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func validLead() Lead {
	return Lead{
		AssignedTo:  uuid.New(),
		Title:       "Website redesign",
		ContactName: "Jane Doe",
		Email:       strPtr("jane@example.com"),
		Source:      LeadSourceReferral,
		Status:      LeadStatusNew,
		DealValue:   25000,
	}
}

func TestLeadValidate(t *testing.T) {
	assert.NoError(t, validLead().Validate())

	tests := map[string]func(l *Lead){
		"missing title":    func(l *Lead) { l.Title = "" },
		"bad source":       func(l *Lead) { l.Source = "billboard" },
		"bad status":       func(l *Lead) { l.Status = "maybe" },
		"negative deal":    func(l *Lead) { l.DealValue = -1 },
		"score over range": func(l *Lead) { l.Score = 101 },
		"bad email":        func(l *Lead) { l.Email = strPtr("not-an-email") },
		"empty email":      func(l *Lead) { l.Email = strPtr("") },
		"bad temperature":  func(l *Lead) { l.Temperature = "lukewarm" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			l := validLead()
			mutate(&l)
			assert.Error(t, l.Validate())
		})
	}
}

func TestLeadFilterValidate(t *testing.T) {
	assert.NoError(t, LeadFilter{}.Validate())
	assert.NoError(t, LeadFilter{Status: LeadStatusWon, Limit: 50}.Validate())
	assert.Error(t, LeadFilter{Limit: 501}.Validate())
	assert.Error(t, LeadFilter{Temperature: "tepid"}.Validate())
}

func TestMeetingValidate(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	m := Meeting{
		LeadID:    uuid.New(),
		Title:     "Demo",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    MeetingStatusScheduled,
	}
	assert.NoError(t, m.Validate())

	m.EndTime = start
	assert.Error(t, m.Validate(), "end must be strictly after start")

	m.EndTime = start.Add(-time.Minute)
	assert.Error(t, m.Validate())
}

func TestFollowUpValidate(t *testing.T) {
	f := FollowUp{
		LeadID:  uuid.New(),
		Type:    FollowUpTypeCall,
		DueDate: time.Now().Add(time.Hour),
		Status:  FollowUpStatusPending,
	}
	assert.NoError(t, f.Validate())

	f.Type = "fax"
	assert.Error(t, f.Validate())

	f.Type = FollowUpTypeEmail
	f.ReminderMinutes = 8 * 24 * 60
	assert.Error(t, f.Validate())
}

func TestDailyReportValidate(t *testing.T) {
	d := DailyReport{TeamType: TeamSales, ReportDate: time.Now(), CallsMade: 12}
	assert.NoError(t, d.Validate())

	d.MeetingsHeld = -1
	assert.Error(t, d.Validate())

	d.MeetingsHeld = 0
	d.TeamType = "finance"
	assert.Error(t, d.Validate())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{TicketOpen, TicketInProgress, true},
		{TicketOpen, TicketResolved, true},
		{TicketOpen, TicketClosed, true},
		{TicketInProgress, TicketOpen, true},
		{TicketInProgress, TicketResolved, true},
		{TicketResolved, TicketOpen, true},
		{TicketResolved, TicketClosed, true},
		{TicketResolved, TicketInProgress, false},
		{TicketClosed, TicketOpen, false},
		{TicketClosed, TicketResolved, false},
		{TicketClosed, TicketClosed, true},
		{"unknown", "unknown", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTicketTransitionSetsResolvedAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	ticket := Ticket{Status: TicketInProgress}

	assert.NoError(t, ticket.Transition(TicketResolved, now))
	assert.Equal(t, TicketResolved, ticket.Status)
	if assert.NotNil(t, ticket.ResolvedAt) {
		assert.Equal(t, now, *ticket.ResolvedAt)
	}

	assert.NoError(t, ticket.Transition(TicketOpen, now.Add(time.Hour)))
	assert.Nil(t, ticket.ResolvedAt)

	assert.NoError(t, ticket.Transition(TicketClosed, now))
	assert.ErrorIs(t, ticket.Transition(TicketOpen, now), ErrInvalidTransition)
	assert.Equal(t, TicketClosed, ticket.Status)
}

func TestInboundTicketDefaults(t *testing.T) {
	ticket := InboundTicket{Subject: "Broken login", RequesterEmail: "a@b.com", Channel: ChannelEmail}.Ticket()
	assert.Equal(t, TicketOpen, ticket.Status)
	assert.Equal(t, PriorityMedium, ticket.Priority)
	assert.NoError(t, ticket.Validate())
}

func TestAttendanceStatus(t *testing.T) {
	loc := time.UTC
	dayStart := 9 * time.Hour
	grace := 15 * time.Minute

	assert.Equal(t, AttendancePresent, CheckInStatus(time.Date(2026, 1, 5, 9, 10, 0, 0, loc), dayStart, grace))
	assert.Equal(t, AttendanceLate, CheckInStatus(time.Date(2026, 1, 5, 9, 16, 0, 0, loc), dayStart, grace))

	in := time.Date(2026, 1, 5, 9, 0, 0, 0, loc)
	a := Attendance{CheckIn: &in, Status: AttendancePresent}
	a.CloseDay(in.Add(8*time.Hour + 30*time.Minute))
	assert.Equal(t, 8.5, a.HoursWorked)
	assert.Equal(t, AttendancePresent, a.Status)

	b := Attendance{CheckIn: &in, Status: AttendanceLate}
	b.CloseDay(in.Add(3 * time.Hour))
	assert.Equal(t, 3.0, b.HoursWorked)
	assert.Equal(t, AttendanceHalfDay, b.Status)
}

func TestNotificationKeyAndReminder(t *testing.T) {
	due := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	entityID := uuid.New()

	n := NewReminder(uuid.New(), EntityMeeting, entityID, "Meeting", "Demo soon", due, 0)
	if assert.NotNil(t, n) {
		assert.Equal(t, time.Date(2026, 2, 1, 11, 30, 0, 0, time.UTC), n.ScheduledFor)
		n.ID = uuid.New()
		assert.Equal(t, "meeting:"+entityID.String()+":"+n.ID.String(), n.Key())
	}

	assert.Nil(t, NewReminder(uuid.New(), EntityMeeting, entityID, "", "", due, -1))
}

func TestContentRequestValidate(t *testing.T) {
	assert.NoError(t, ContentRequest{ContentType: ContentBlog, Topic: "Spring sale"}.Validate())
	assert.Error(t, ContentRequest{ContentType: "podcast", Topic: "x"}.Validate())
	assert.Error(t, AssistRequest{}.Validate())
}
