package services

import (
	"context"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/appconfig"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/scoring"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
)

// CRMDB is the storage used by the HTTP services. It is implemented by *db.CRMDB.
type CRMDB interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	ListProfiles(ctx context.Context, teamType string) ([]models.UserProfile, error)
	EnsureProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, p models.UserProfile) (*models.UserProfile, error)

	ListClients(ctx context.Context, createdBy *uuid.UUID) ([]models.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*models.Client, error)
	CreateClient(ctx context.Context, c models.Client) (*models.Client, error)
	UpdateClient(ctx context.Context, c models.Client) (*models.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID) error

	ListLeads(ctx context.Context, f models.LeadFilter) ([]models.Lead, error)
	GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	CreateLead(ctx context.Context, l models.Lead) (*models.Lead, error)
	UpdateLead(ctx context.Context, l models.Lead) (*models.Lead, error)
	DeleteLead(ctx context.Context, id uuid.UUID) error
	GetLeadActivity(ctx context.Context, id uuid.UUID) (models.LeadActivity, error)
	TouchLead(ctx context.Context, id uuid.UUID, at time.Time) error

	ListFollowUps(ctx context.Context, f models.FollowUpFilter) ([]models.FollowUp, error)
	GetFollowUp(ctx context.Context, id uuid.UUID) (*models.FollowUp, error)
	CreateFollowUp(ctx context.Context, f models.FollowUp, reminder *models.Notification) (*models.FollowUp, error)
	UpdateFollowUp(ctx context.Context, f models.FollowUp, reminder *models.Notification) (*models.FollowUp, error)
	DeleteFollowUp(ctx context.Context, f models.FollowUp) error

	ListMeetings(ctx context.Context, organizer *uuid.UUID, from, to *time.Time) ([]models.Meeting, error)
	GetMeeting(ctx context.Context, id uuid.UUID) (*models.Meeting, error)
	CreateMeeting(ctx context.Context, m models.Meeting, reminder *models.Notification) (*models.Meeting, error)
	UpdateMeeting(ctx context.Context, m models.Meeting, reminder *models.Notification) (*models.Meeting, error)
	DeleteMeeting(ctx context.Context, m models.Meeting) error

	CheckIn(ctx context.Context, a models.Attendance) (*models.Attendance, error)
	CheckOut(ctx context.Context, userID uuid.UUID, checkOut time.Time, notes *string) (*models.Attendance, error)
	ListAttendance(ctx context.Context, f models.AttendanceFilter) ([]models.Attendance, error)

	ListReports(ctx context.Context, f models.ReportFilter) ([]models.DailyReport, error)
	SubmitReport(ctx context.Context, d models.DailyReport) (*models.DailyReport, error)
	SummarizeReports(ctx context.Context, f models.ReportFilter) (*models.ReportSummary, error)

	ListTodos(ctx context.Context, userID uuid.UUID) ([]models.Todo, error)
	GetTodo(ctx context.Context, id uuid.UUID) (*models.Todo, error)
	CreateTodo(ctx context.Context, t models.Todo, reminder *models.Notification) (*models.Todo, error)
	UpdateTodo(ctx context.Context, t models.Todo, reminder *models.Notification) (*models.Todo, error)
	DeleteTodo(ctx context.Context, t models.Todo) error

	ListTickets(ctx context.Context, f models.TicketFilter) ([]models.Ticket, error)
	GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	CreateTicket(ctx context.Context, t models.Ticket, alert *models.Notification) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, t models.Ticket, alert *models.Notification) (*models.Ticket, error)

	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	GetNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)

	SaveHubContent(ctx context.Context, c models.HubContent) (*models.HubContent, error)
	ListHubContent(ctx context.Context, userID uuid.UUID, contentType string) ([]models.HubContent, error)
}

// Cache holds list query results. It is implemented by *cache.Cache and cache.Nop.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, table, key string, value interface{}) error
	Invalidate(ctx context.Context, tables ...string) error
}

// Backend is the marketing and voice backend service.
type Backend interface {
	GenerateContent(ctx context.Context, req models.ContentRequest) (string, error)
	StartCall(ctx context.Context, lead models.Lead, script *string) (*models.CallResponse, error)
}

// TextGenerator drafts free-form text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service contains all shared dependencies for handlers.
type Service struct {
	Config  *appconfig.Config
	DB      CRMDB
	Cache   Cache
	Scorer  *scoring.Scorer
	Backend Backend
	GenAI   TextGenerator
	Now     func() time.Time
}

func (svc *Service) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now().UTC()
}
