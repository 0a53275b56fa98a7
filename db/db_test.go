package db

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/events"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, event events.ChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockNotifier) Close() {
	m.Called()
}

func newMockDB(t *testing.T) (*CRMDB, sqlmock.Sqlmock, *MockNotifier) {
	t.Helper()
	conn, mockSQL, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	notifier := new(MockNotifier)
	logger := zerolog.Nop()
	return &CRMDB{DB: conn, Events: notifier, Log: &logger}, mockSQL, notifier
}

func eventFor(table, action string) interface{} {
	return mock.MatchedBy(func(e events.ChangeEvent) bool {
		return e.Table == table && e.Action == action
	})
}

func TestGetLeadNotFound(t *testing.T) {
	crm, mockSQL, _ := newMockDB(t)
	id := uuid.New()

	mockSQL.ExpectQuery(regexp.QuoteMeta("FROM leads WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	lead, err := crm.GetLead(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, lead)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestListLeadsBuildsFilter(t *testing.T) {
	crm, mockSQL, _ := newMockDB(t)
	agent := uuid.New()
	leadID := uuid.New()
	now := time.Now().UTC()

	columns := []string{"id", "client_id", "assigned_to", "title", "contact_name", "email", "phone", "source", "status",
		"deal_value", "score", "temperature", "notes", "last_contacted_at", "created_at", "updated_at"}

	mockSQL.ExpectQuery(regexp.QuoteMeta("FROM leads WHERE assigned_to = $1 AND status = $2 AND (title ILIKE $3 OR contact_name ILIKE $3 OR email ILIKE $3) ORDER BY updated_at DESC LIMIT $4 OFFSET $5")).
		WithArgs(agent, models.LeadStatusQualified, "%acme%", 10, 20).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			leadID.String(), nil, agent.String(), "Acme deal", "Wile E.", "wile@acme.test", nil, "referral", "qualified",
			"150000.00", 72, "hot", nil, now, now, now))

	leads, err := crm.ListLeads(context.Background(), models.LeadFilter{
		AssignedTo: &agent, Status: models.LeadStatusQualified, Search: "acme", Limit: 10, Offset: 20,
	})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, leadID, leads[0].ID)
	assert.Nil(t, leads[0].ClientID)
	assert.Equal(t, 150000.0, leads[0].DealValue)
	assert.Equal(t, "wile@acme.test", *leads[0].Email)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestCreateLeadPublishesChange(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)

	mockSQL.ExpectBegin()
	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO leads")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectCommit()
	notifier.On("Notify", mock.Anything, eventFor(TableLeads, events.ActionInsert)).Return(nil)

	lead, err := crm.CreateLead(context.Background(), models.Lead{
		AssignedTo: uuid.New(), Title: "New", ContactName: "C", Source: "website", Status: "new", Temperature: "cold",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, lead.ID)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
	notifier.AssertExpectations(t)
}

func TestCreateLeadSucceedsWhenPublishFails(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)

	mockSQL.ExpectBegin()
	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO leads")).WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectCommit()
	notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("pulsar down"))

	_, err := crm.CreateLead(context.Background(), models.Lead{AssignedTo: uuid.New()})
	assert.NoError(t, err)
}

func TestCreateClientUniqueViolation(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)

	mockSQL.ExpectBegin()
	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO clients")).
		WillReturnError(&pq.Error{Code: "23505"})
	mockSQL.ExpectRollback()

	_, err := crm.CreateClient(context.Background(), models.Client{Name: "Dup", CreatedBy: uuid.New()})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestCreateFollowUpWithReminder(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)
	agent := uuid.New()
	due := time.Now().Add(24 * time.Hour)

	mockSQL.ExpectBegin()
	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO follow_ups")).WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(sqlmock.AnyArg(), agent, models.EntityFollowUp, sqlmock.AnyArg(), "Follow-up due", "Call the client",
			due.Add(-30*time.Minute), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectCommit()
	notifier.On("Notify", mock.Anything, eventFor(TableFollowUps, events.ActionInsert)).Return(nil)
	notifier.On("Notify", mock.Anything, eventFor(TableNotifications, events.ActionInsert)).Return(nil)

	reminder := models.NewReminder(agent, models.EntityFollowUp, uuid.Nil, "Follow-up due", "Call the client", due, 30)
	f, err := crm.CreateFollowUp(context.Background(), models.FollowUp{
		LeadID: uuid.New(), AssignedTo: agent, Type: "call", DueDate: due, Status: "pending",
	}, reminder)
	require.NoError(t, err)
	assert.Equal(t, f.ID, reminder.EntityID)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
	notifier.AssertExpectations(t)
}

func TestCreateFollowUpRollsBackWhenReminderFails(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)

	mockSQL.ExpectBegin()
	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO follow_ups")).WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).WillReturnError(errors.New("boom"))
	mockSQL.ExpectRollback()

	reminder := &models.Notification{UserID: uuid.New(), EntityType: models.EntityFollowUp}
	_, err := crm.CreateFollowUp(context.Background(), models.FollowUp{LeadID: uuid.New()}, reminder)
	assert.Error(t, err)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestDeleteMeetingCancelsReminders(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)
	m := models.Meeting{ID: uuid.New(), LeadID: uuid.New(), Organizer: uuid.New()}

	mockSQL.ExpectBegin()
	mockSQL.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET cancelled = true WHERE entity_id = $1")).
		WithArgs(m.ID).WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectExec(regexp.QuoteMeta("DELETE FROM meetings WHERE id = $1")).
		WithArgs(m.ID).WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectCommit()
	notifier.On("Notify", mock.Anything, eventFor(TableMeetings, events.ActionDelete)).Return(nil)

	require.NoError(t, crm.DeleteMeeting(context.Background(), m))
	assert.NoError(t, mockSQL.ExpectationsWereMet())
	notifier.AssertExpectations(t)
}

func TestCheckInTwice(t *testing.T) {
	crm, mockSQL, _ := newMockDB(t)
	now := time.Date(2026, 4, 6, 9, 5, 0, 0, time.UTC)

	mockSQL.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "2026-04-06", sqlmock.AnyArg(), models.AttendancePresent, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := crm.CheckIn(context.Background(), models.Attendance{
		UserID: uuid.New(), WorkDate: now, CheckIn: &now, Status: models.AttendancePresent,
	})
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	crm, mockSQL, _ := newMockDB(t)

	mockSQL.ExpectQuery(regexp.QuoteMeta("FROM attendance")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := crm.CheckOut(context.Background(), uuid.New(), time.Now(), nil)
	assert.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestMarkDeliveredSkipsCancelled(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)
	n := models.Notification{ID: uuid.New(), UserID: uuid.New(), EntityID: uuid.New()}

	mockSQL.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET delivered = true")).
		WithArgs(sqlmock.AnyArg(), n.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	claimed, err := crm.MarkDelivered(context.Background(), n, time.Now())
	require.NoError(t, err)
	assert.False(t, claimed)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestPendingNotifications(t *testing.T) {
	crm, mockSQL, _ := newMockDB(t)
	from := time.Now().Add(-15 * time.Minute)
	to := time.Now().Add(time.Hour)
	n := models.Notification{ID: uuid.New(), UserID: uuid.New(), EntityType: models.EntityMeeting, EntityID: uuid.New()}

	mockSQL.ExpectQuery(regexp.QuoteMeta("WHERE delivered = false AND cancelled = false AND scheduled_for BETWEEN $1 AND $2")).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "entity_type", "entity_id", "title", "message",
			"scheduled_for", "delivered", "delivered_at", "read_at", "cancelled", "created_at"}).
			AddRow(n.ID.String(), n.UserID.String(), n.EntityType, n.EntityID.String(), "Meeting", "Soon", to, false, nil, nil, false, from))

	pending, err := crm.PendingNotifications(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, n.Key(), pending[0].Key())
}

func TestSummarizeReports(t *testing.T) {
	crm, mockSQL, _ := newMockDB(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	mockSQL.ExpectQuery(regexp.QuoteMeta("FROM daily_reports WHERE team_type = $1 AND report_date >= $2 AND report_date <= $3")).
		WithArgs(models.TeamSales, "2026-03-01", "2026-03-31").
		WillReturnRows(sqlmock.NewRows([]string{"count", "calls", "meetings", "leads", "follow_ups", "tickets", "content"}).
			AddRow(4, 40, 6, 9, 12, 0, 0))

	s, err := crm.SummarizeReports(context.Background(), models.ReportFilter{TeamType: models.TeamSales, From: from, To: to})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Reports)
	assert.Equal(t, 40, s.CallsMade)
	assert.Equal(t, 12, s.FollowUpsDone)
}

func TestWhereBuilder(t *testing.T) {
	q := where{}
	assert.Equal(t, "", q.String())
	assert.Equal(t, "", q.page(0, 0))

	q.add("a = $%d", 1)
	q.add("b = $%d", "x")
	assert.Equal(t, " WHERE a = $1 AND b = $2", q.String())
	assert.Equal(t, " LIMIT $3 OFFSET $4", q.page(5, 0))
	assert.Equal(t, []interface{}{1, "x", 5, 0}, q.args)
}

func TestUpdateMeetingWritesOrganizerAndLeadTime(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)
	start := time.Now().Add(48 * time.Hour).UTC()
	m := models.Meeting{
		ID: uuid.New(), LeadID: uuid.New(), Organizer: uuid.New(), Title: "Demo",
		StartTime: start, EndTime: start.Add(time.Hour), Status: models.MeetingStatusScheduled, ReminderMinutes: 60,
	}

	mockSQL.ExpectBegin()
	mockSQL.ExpectExec(regexp.QuoteMeta("UPDATE meetings SET")).
		WithArgs(m.Title, m.Location, m.MeetingLink, m.StartTime, m.EndTime, m.Status, m.Notes, m.Organizer, 60, m.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET cancelled = true WHERE entity_id = $1")).
		WithArgs(m.ID).WillReturnResult(sqlmock.NewResult(0, 1))
	mockSQL.ExpectCommit()
	notifier.On("Notify", mock.Anything, eventFor(TableMeetings, events.ActionUpdate)).Return(nil)

	updated, err := crm.UpdateMeeting(context.Background(), m, nil)
	require.NoError(t, err)
	assert.Equal(t, m.Organizer, updated.Organizer)
	assert.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestGetFollowUpReadsLeadTime(t *testing.T) {
	crm, mockSQL, _ := newMockDB(t)
	id := uuid.New()
	now := time.Now().UTC()

	mockSQL.ExpectQuery(regexp.QuoteMeta("reminder_minutes, created_at FROM follow_ups WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lead_id", "assigned_to", "type", "due_date", "status", "notes",
			"completed_at", "reminder_minutes", "created_at"}).
			AddRow(id.String(), uuid.NewString(), uuid.NewString(), "call", now, "pending", nil, nil, 45, now))

	f, err := crm.GetFollowUp(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 45, f.ReminderMinutes)
}

func TestMarkAllReadEventHasNoRecord(t *testing.T) {
	crm, mockSQL, notifier := newMockDB(t)
	userID := uuid.New()

	mockSQL.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read_at = $1 WHERE user_id = $2")).
		WithArgs(sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(e events.ChangeEvent) bool {
		return e.Table == TableNotifications && e.RecordID == uuid.Nil && e.UserID != nil && *e.UserID == userID
	})).Return(nil)

	n, err := crm.MarkAllRead(context.Background(), userID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	notifier.AssertExpectations(t)
}

func TestAffectedTables(t *testing.T) {
	assert.Equal(t, []string{TableClients, TableLeads, TableTickets}, AffectedTables(TableClients))
	assert.Equal(t, []string{TableTodos, TableNotifications}, AffectedTables(TableTodos, TableNotifications))
	assert.Equal(t, []string{TableLeads, TableFollowUps, TableMeetings, TableClients, TableTickets},
		AffectedTables(TableLeads, TableClients, TableLeads))
}
