package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	FollowUpTypeCall     = "call"
	FollowUpTypeEmail    = "email"
	FollowUpTypeMeeting  = "meeting"
	FollowUpTypeWhatsApp = "whatsapp"
	FollowUpTypeOther    = "other"
)

const (
	FollowUpStatusPending   = "pending"
	FollowUpStatusCompleted = "completed"
	FollowUpStatusCancelled = "cancelled"
	FollowUpStatusOverdue   = "overdue"
)

const (
	MeetingStatusScheduled   = "scheduled"
	MeetingStatusCompleted   = "completed"
	MeetingStatusCancelled   = "cancelled"
	MeetingStatusRescheduled = "rescheduled"
)

// DefaultReminderMinutes is the lead time of a reminder when a request does not set one.
const DefaultReminderMinutes = 30

var (
	FollowUpTypes    = []string{FollowUpTypeCall, FollowUpTypeEmail, FollowUpTypeMeeting, FollowUpTypeWhatsApp, FollowUpTypeOther}
	FollowUpStatuses = []string{FollowUpStatusPending, FollowUpStatusCompleted, FollowUpStatusCancelled, FollowUpStatusOverdue}
	MeetingStatuses  = []string{MeetingStatusScheduled, MeetingStatusCompleted, MeetingStatusCancelled, MeetingStatusRescheduled}
)

// FollowUp is a scheduled action on a lead.
type FollowUp struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	AssignedTo  uuid.UUID  `json:"assignedTo"`
	Type        string     `json:"type"`
	DueDate     time.Time  `json:"dueDate"`
	Status      string     `json:"status"`
	Notes       *string    `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	// ReminderMinutes is how long before DueDate to remind the agent. Zero means
	// DefaultReminderMinutes and a negative value disables the reminder. An update
	// that leaves it out keeps the stored value.
	ReminderMinutes int `json:"reminderMinutes,omitempty"`
}

func (f FollowUp) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.LeadID, validation.Required),
		validation.Field(&f.Type, validation.Required, oneOf(FollowUpTypes)),
		validation.Field(&f.DueDate, validation.Required),
		validation.Field(&f.Status, validation.Required, oneOf(FollowUpStatuses)),
		validation.Field(&f.ReminderMinutes, validation.Max(7*24*60)),
	)
}

// IsClosed reports whether the follow-up no longer needs a reminder.
func (f FollowUp) IsClosed() bool {
	return f.Status == FollowUpStatusCompleted || f.Status == FollowUpStatusCancelled
}

// FollowUpFilter narrows a follow-up listing.
type FollowUpFilter struct {
	AssignedTo *uuid.UUID
	LeadID     *uuid.UUID
	Status     string
	DueBefore  *time.Time
}

func (f FollowUpFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, oneOf(FollowUpStatuses)),
	)
}

// Meeting is a scheduled meeting with a lead.
type Meeting struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"leadId"`
	Organizer   uuid.UUID `json:"organizer"`
	Title       string    `json:"title"`
	Location    *string   `json:"location,omitempty"`
	MeetingLink *string   `json:"meetingLink,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// ReminderMinutes works as FollowUp.ReminderMinutes.
	ReminderMinutes int `json:"reminderMinutes,omitempty"`
}

func (m Meeting) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.LeadID, validation.Required),
		validation.Field(&m.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&m.StartTime, validation.Required),
		validation.Field(&m.EndTime, validation.Required, validation.Min(m.StartTime).Exclusive().Error("must be after startTime")),
		validation.Field(&m.Status, validation.Required, oneOf(MeetingStatuses)),
		validation.Field(&m.MeetingLink, validation.NilOrNotEmpty),
		validation.Field(&m.ReminderMinutes, validation.Max(7*24*60)),
	)
}

// IsClosed reports whether the meeting no longer needs a reminder.
func (m Meeting) IsClosed() bool {
	return m.Status == MeetingStatusCompleted || m.Status == MeetingStatusCancelled
}
