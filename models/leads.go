package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusQualified   = "qualified"
	LeadStatusProposal    = "proposal"
	LeadStatusNegotiation = "negotiation"
	LeadStatusWon         = "won"
	LeadStatusLost        = "lost"
)

const (
	LeadSourceWebsite  = "website"
	LeadSourceReferral = "referral"
	LeadSourceCampaign = "campaign"
	LeadSourceSocial   = "social"
	LeadSourceColdCall = "cold_call"
	LeadSourceEvent    = "event"
	LeadSourceOther    = "other"
)

const (
	TemperatureHot  = "hot"
	TemperatureWarm = "warm"
	TemperatureCold = "cold"
)

var (
	LeadStatuses = []string{LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusProposal, LeadStatusNegotiation, LeadStatusWon, LeadStatusLost}
	LeadSources = []string{LeadSourceWebsite, LeadSourceReferral, LeadSourceCampaign,
		LeadSourceSocial, LeadSourceColdCall, LeadSourceEvent, LeadSourceOther}
	Temperatures = []string{TemperatureHot, TemperatureWarm, TemperatureCold}
)

// Lead is a sales prospect linked to a client and an assigned agent.
type Lead struct {
	ID              uuid.UUID  `json:"id"`
	ClientID        *uuid.UUID `json:"clientId,omitempty"`
	AssignedTo      uuid.UUID  `json:"assignedTo"`
	Title           string     `json:"title"`
	ContactName     string     `json:"contactName"`
	Email           *string    `json:"email,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Source          string     `json:"source"`
	Status          string     `json:"status"`
	DealValue       float64    `json:"dealValue"`
	Score           int        `json:"score"`
	Temperature     string     `json:"temperature"`
	Notes           *string    `json:"notes,omitempty"`
	LastContactedAt *time.Time `json:"lastContactedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (l Lead) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&l.ContactName, validation.Required, validation.Length(1, 255)),
		validation.Field(&l.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&l.Phone, validation.NilOrNotEmpty, validation.Length(5, 32)),
		validation.Field(&l.Source, validation.Required, oneOf(LeadSources)),
		validation.Field(&l.Status, validation.Required, oneOf(LeadStatuses)),
		validation.Field(&l.DealValue, validation.Min(0.0)),
		validation.Field(&l.Score, validation.Min(0), validation.Max(100)),
		validation.Field(&l.Temperature, oneOf(Temperatures)),
	)
}

// LeadFilter narrows a lead listing.
type LeadFilter struct {
	AssignedTo  *uuid.UUID
	Status      string
	Temperature string
	Search      string
	Limit       int
	Offset      int
}

func (f LeadFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, oneOf(LeadStatuses)),
		validation.Field(&f.Temperature, oneOf(Temperatures)),
		validation.Field(&f.Limit, validation.Min(0), validation.Max(500)),
		validation.Field(&f.Offset, validation.Min(0)),
	)
}

// LeadStatusUpdate is the payload of a lead status change.
type LeadStatusUpdate struct {
	Status string `json:"status"`
}

func (u LeadStatusUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Status, validation.Required, oneOf(LeadStatuses)),
	)
}

// LeadActivity holds the engagement counters used for scoring.
type LeadActivity struct {
	CompletedFollowUps int
	HeldMeetings       int
}

// CallRequest asks the backend service to place a voice call to a lead.
type CallRequest struct {
	Script *string `json:"script,omitempty"`
}

// CallResponse is the outcome of starting a voice call.
type CallResponse struct {
	CallID string `json:"callId"`
	Status string `json:"status"`
}
