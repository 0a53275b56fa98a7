package services

import (
	"context"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockCRMDB struct {
	mock.Mock
}

type MockBackend struct {
	mock.Mock
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockCRMDB) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.UserProfile)
	return v, args.Error(1)
}

func (m *MockCRMDB) ListProfiles(ctx context.Context, teamType string) ([]models.UserProfile, error) {
	args := m.Called(ctx, teamType)
	v, _ := args.Get(0).([]models.UserProfile)
	return v, args.Error(1)
}

func (m *MockCRMDB) EnsureProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	args := m.Called(ctx, p)
	v, _ := args.Get(0).(*models.UserProfile)
	return v, args.Error(1)
}

func (m *MockCRMDB) UpdateProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error) {
	args := m.Called(ctx, p)
	v, _ := args.Get(0).(*models.UserProfile)
	return v, args.Error(1)
}

func (m *MockCRMDB) ListClients(ctx context.Context, createdBy *uuid.UUID) ([]models.Client, error) {
	args := m.Called(ctx, createdBy)
	v, _ := args.Get(0).([]models.Client)
	return v, args.Error(1)
}

func (m *MockCRMDB) GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Client)
	return v, args.Error(1)
}

func (m *MockCRMDB) CreateClient(ctx context.Context, c models.Client) (*models.Client, error) {
	args := m.Called(ctx, c)
	v, _ := args.Get(0).(*models.Client)
	return v, args.Error(1)
}

func (m *MockCRMDB) UpdateClient(ctx context.Context, c models.Client) (*models.Client, error) {
	args := m.Called(ctx, c)
	v, _ := args.Get(0).(*models.Client)
	return v, args.Error(1)
}

func (m *MockCRMDB) DeleteClient(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCRMDB) ListLeads(ctx context.Context, f models.LeadFilter) ([]models.Lead, error) {
	args := m.Called(ctx, f)
	v, _ := args.Get(0).([]models.Lead)
	return v, args.Error(1)
}

func (m *MockCRMDB) GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Lead)
	return v, args.Error(1)
}

func (m *MockCRMDB) CreateLead(ctx context.Context, l models.Lead) (*models.Lead, error) {
	args := m.Called(ctx, l)
	v, _ := args.Get(0).(*models.Lead)
	return v, args.Error(1)
}

func (m *MockCRMDB) UpdateLead(ctx context.Context, l models.Lead) (*models.Lead, error) {
	args := m.Called(ctx, l)
	v, _ := args.Get(0).(*models.Lead)
	return v, args.Error(1)
}

func (m *MockCRMDB) DeleteLead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCRMDB) GetLeadActivity(ctx context.Context, id uuid.UUID) (models.LeadActivity, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.LeadActivity), args.Error(1)
}

func (m *MockCRMDB) TouchLead(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockCRMDB) ListFollowUps(ctx context.Context, f models.FollowUpFilter) ([]models.FollowUp, error) {
	args := m.Called(ctx, f)
	v, _ := args.Get(0).([]models.FollowUp)
	return v, args.Error(1)
}

func (m *MockCRMDB) GetFollowUp(ctx context.Context, id uuid.UUID) (*models.FollowUp, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.FollowUp)
	return v, args.Error(1)
}

func (m *MockCRMDB) CreateFollowUp(ctx context.Context, f models.FollowUp, reminder *models.Notification) (*models.FollowUp, error) {
	args := m.Called(ctx, f, reminder)
	v, _ := args.Get(0).(*models.FollowUp)
	return v, args.Error(1)
}

func (m *MockCRMDB) UpdateFollowUp(ctx context.Context, f models.FollowUp, reminder *models.Notification) (*models.FollowUp, error) {
	args := m.Called(ctx, f, reminder)
	v, _ := args.Get(0).(*models.FollowUp)
	return v, args.Error(1)
}

func (m *MockCRMDB) DeleteFollowUp(ctx context.Context, f models.FollowUp) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockCRMDB) ListMeetings(ctx context.Context, organizer *uuid.UUID, from, to *time.Time) ([]models.Meeting, error) {
	args := m.Called(ctx, organizer, from, to)
	v, _ := args.Get(0).([]models.Meeting)
	return v, args.Error(1)
}

func (m *MockCRMDB) GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Meeting)
	return v, args.Error(1)
}

func (m *MockCRMDB) CreateMeeting(ctx context.Context, meeting models.Meeting, reminder *models.Notification) (*models.Meeting, error) {
	args := m.Called(ctx, meeting, reminder)
	v, _ := args.Get(0).(*models.Meeting)
	return v, args.Error(1)
}

func (m *MockCRMDB) UpdateMeeting(ctx context.Context, meeting models.Meeting, reminder *models.Notification) (*models.Meeting, error) {
	args := m.Called(ctx, meeting, reminder)
	v, _ := args.Get(0).(*models.Meeting)
	return v, args.Error(1)
}

func (m *MockCRMDB) DeleteMeeting(ctx context.Context, meeting models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockCRMDB) CheckIn(ctx context.Context, a models.Attendance) (*models.Attendance, error) {
	args := m.Called(ctx, a)
	v, _ := args.Get(0).(*models.Attendance)
	return v, args.Error(1)
}

func (m *MockCRMDB) CheckOut(ctx context.Context, userID uuid.UUID, checkOut time.Time, notes *string) (*models.Attendance, error) {
	args := m.Called(ctx, userID, checkOut, notes)
	v, _ := args.Get(0).(*models.Attendance)
	return v, args.Error(1)
}

func (m *MockCRMDB) ListAttendance(ctx context.Context, f models.AttendanceFilter) ([]models.Attendance, error) {
	args := m.Called(ctx, f)
	v, _ := args.Get(0).([]models.Attendance)
	return v, args.Error(1)
}

func (m *MockCRMDB) ListReports(ctx context.Context, f models.ReportFilter) ([]models.DailyReport, error) {
	args := m.Called(ctx, f)
	v, _ := args.Get(0).([]models.DailyReport)
	return v, args.Error(1)
}

func (m *MockCRMDB) SubmitReport(ctx context.Context, d models.DailyReport) (*models.DailyReport, error) {
	args := m.Called(ctx, d)
	v, _ := args.Get(0).(*models.DailyReport)
	return v, args.Error(1)
}

func (m *MockCRMDB) SummarizeReports(ctx context.Context, f models.ReportFilter) (*models.ReportSummary, error) {
	args := m.Called(ctx, f)
	v, _ := args.Get(0).(*models.ReportSummary)
	return v, args.Error(1)
}

func (m *MockCRMDB) ListTodos(ctx context.Context, userID uuid.UUID) ([]models.Todo, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).([]models.Todo)
	return v, args.Error(1)
}

func (m *MockCRMDB) GetTodo(ctx context.Context, id uuid.UUID) (*models.Todo, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Todo)
	return v, args.Error(1)
}

func (m *MockCRMDB) CreateTodo(ctx context.Context, t models.Todo, reminder *models.Notification) (*models.Todo, error) {
	args := m.Called(ctx, t, reminder)
	v, _ := args.Get(0).(*models.Todo)
	return v, args.Error(1)
}

func (m *MockCRMDB) UpdateTodo(ctx context.Context, t models.Todo, reminder *models.Notification) (*models.Todo, error) {
	args := m.Called(ctx, t, reminder)
	v, _ := args.Get(0).(*models.Todo)
	return v, args.Error(1)
}

func (m *MockCRMDB) DeleteTodo(ctx context.Context, t models.Todo) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockCRMDB) ListTickets(ctx context.Context, f models.TicketFilter) ([]models.Ticket, error) {
	args := m.Called(ctx, f)
	v, _ := args.Get(0).([]models.Ticket)
	return v, args.Error(1)
}

func (m *MockCRMDB) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Ticket)
	return v, args.Error(1)
}

func (m *MockCRMDB) CreateTicket(ctx context.Context, t models.Ticket, alert *models.Notification) (*models.Ticket, error) {
	args := m.Called(ctx, t, alert)
	v, _ := args.Get(0).(*models.Ticket)
	return v, args.Error(1)
}

func (m *MockCRMDB) UpdateTicket(ctx context.Context, t models.Ticket, alert *models.Notification) (*models.Ticket, error) {
	args := m.Called(ctx, t, alert)
	v, _ := args.Get(0).(*models.Ticket)
	return v, args.Error(1)
}

func (m *MockCRMDB) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	v, _ := args.Get(0).([]models.Notification)
	return v, args.Error(1)
}

func (m *MockCRMDB) GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Notification)
	return v, args.Error(1)
}

func (m *MockCRMDB) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, userID, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockCRMDB) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCRMDB) SaveHubContent(ctx context.Context, c models.HubContent) (*models.HubContent, error) {
	args := m.Called(ctx, c)
	v, _ := args.Get(0).(*models.HubContent)
	return v, args.Error(1)
}

func (m *MockCRMDB) ListHubContent(ctx context.Context, userID uuid.UUID, contentType string) ([]models.HubContent, error) {
	args := m.Called(ctx, userID, contentType)
	v, _ := args.Get(0).([]models.HubContent)
	return v, args.Error(1)
}

func (m *MockBackend) GenerateContent(ctx context.Context, req models.ContentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) StartCall(ctx context.Context, lead models.Lead, script *string) (*models.CallResponse, error) {
	args := m.Called(ctx, lead, script)
	v, _ := args.Get(0).(*models.CallResponse)
	return v, args.Error(1)
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}
