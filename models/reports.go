package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// DailyReport is a per-agent, per-team-type activity summary for one day.
type DailyReport struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	TeamType         string    `json:"teamType"`
	ReportDate       time.Time `json:"reportDate"`
	CallsMade        int       `json:"callsMade"`
	MeetingsHeld     int       `json:"meetingsHeld"`
	LeadsGenerated   int       `json:"leadsGenerated"`
	FollowUpsDone    int       `json:"followUpsDone"`
	TicketsResolved  int       `json:"ticketsResolved"`
	ContentPublished int       `json:"contentPublished"`
	Summary          *string   `json:"summary,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (d DailyReport) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.TeamType, validation.Required, oneOf(TeamTypes)),
		validation.Field(&d.ReportDate, validation.Required),
		validation.Field(&d.CallsMade, validation.Min(0)),
		validation.Field(&d.MeetingsHeld, validation.Min(0)),
		validation.Field(&d.LeadsGenerated, validation.Min(0)),
		validation.Field(&d.FollowUpsDone, validation.Min(0)),
		validation.Field(&d.TicketsResolved, validation.Min(0)),
		validation.Field(&d.ContentPublished, validation.Min(0)),
		validation.Field(&d.Summary, validation.Length(0, 4000)),
	)
}

// ReportFilter narrows a report listing or summary.
type ReportFilter struct {
	UserID   *uuid.UUID
	TeamType string
	From     time.Time
	To       time.Time
}

func (f ReportFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.TeamType, oneOf(TeamTypes)),
		validation.Field(&f.From, validation.Required),
		validation.Field(&f.To, validation.Required, validation.Min(f.From).Error("must not be before from")),
	)
}

// ReportSummary totals the counters of every report in a date range for one team type.
type ReportSummary struct {
	TeamType         string    `json:"teamType"`
	From             time.Time `json:"from"`
	To               time.Time `json:"to"`
	Reports          int       `json:"reports"`
	CallsMade        int       `json:"callsMade"`
	MeetingsHeld     int       `json:"meetingsHeld"`
	LeadsGenerated   int       `json:"leadsGenerated"`
	FollowUpsDone    int       `json:"followUpsDone"`
	TicketsResolved  int       `json:"ticketsResolved"`
	ContentPublished int       `json:"contentPublished"`
}
