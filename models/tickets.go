package models

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

const (
	ChannelEmail    = "email"
	ChannelPhone    = "phone"
	ChannelChat     = "chat"
	ChannelWhatsApp = "whatsapp"
	ChannelWeb      = "web"
)

var (
	TicketStatuses   = []string{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}
	TicketPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	TicketChannels   = []string{ChannelEmail, ChannelPhone, ChannelChat, ChannelWhatsApp, ChannelWeb}
)

var ErrInvalidTransition = errors.New("invalid ticket status transition")

var ticketTransitions = map[string][]string{
	TicketOpen:       {TicketInProgress, TicketResolved, TicketClosed},
	TicketInProgress: {TicketOpen, TicketResolved, TicketClosed},
	TicketResolved:   {TicketOpen, TicketClosed},
	TicketClosed:     {},
}

// CanTransition reports whether a ticket may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return Contains(TicketStatuses, from)
	}
	return Contains(ticketTransitions[from], to)
}

// Ticket is a customer-support request.
type Ticket struct {
	ID             uuid.UUID  `json:"id"`
	ClientID       *uuid.UUID `json:"clientId,omitempty"`
	Subject        string     `json:"subject"`
	Description    *string    `json:"description,omitempty"`
	RequesterEmail *string    `json:"requesterEmail,omitempty"`
	AssignedTo     *uuid.UUID `json:"assignedTo,omitempty"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Channel        string     `json:"channel"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (t Ticket) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Subject, validation.Required, validation.Length(1, 255)),
		validation.Field(&t.RequesterEmail, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&t.Status, validation.Required, oneOf(TicketStatuses)),
		validation.Field(&t.Priority, validation.Required, oneOf(TicketPriorities)),
		validation.Field(&t.Channel, validation.Required, oneOf(TicketChannels)),
	)
}

// Transition moves the ticket to status, maintaining ResolvedAt.
func (t *Ticket) Transition(status string, now time.Time) error {
	if !CanTransition(t.Status, status) {
		return ErrInvalidTransition
	}
	if status == TicketResolved && t.Status != TicketResolved {
		t.ResolvedAt = &now
	}
	if status == TicketOpen || status == TicketInProgress {
		t.ResolvedAt = nil
	}
	t.Status = status
	return nil
}

// TicketFilter narrows a ticket listing.
type TicketFilter struct {
	AssignedTo *uuid.UUID
	Status     string
	Priority   string
	Channel    string
}

func (f TicketFilter) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Status, oneOf(TicketStatuses)),
		validation.Field(&f.Priority, oneOf(TicketPriorities)),
		validation.Field(&f.Channel, oneOf(TicketChannels)),
	)
}

// InboundTicket is the payload accepted by the inbound ticket webhook.
type InboundTicket struct {
	Subject        string  `json:"subject"`
	Description    *string `json:"description,omitempty"`
	RequesterEmail string  `json:"requesterEmail"`
	Priority       string  `json:"priority,omitempty"`
	Channel        string  `json:"channel"`
}

// InboundTicketSchema is the JSON schema an inbound webhook body must satisfy.
const InboundTicketSchema = `{
  "type": "object",
  "required": ["subject", "requesterEmail", "channel"],
  "properties": {
    "subject": {"type": "string", "minLength": 1, "maxLength": 255},
    "description": {"type": "string"},
    "requesterEmail": {"type": "string", "format": "email"},
    "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
    "channel": {"type": "string", "enum": ["email", "phone", "chat", "whatsapp", "web"]}
  }
}`

// Ticket converts the inbound payload into a new open ticket.
func (in InboundTicket) Ticket() Ticket {
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	email := in.RequesterEmail
	return Ticket{
		Subject:        in.Subject,
		Description:    in.Description,
		RequesterEmail: &email,
		Status:         TicketOpen,
		Priority:       priority,
		Channel:        in.Channel,
	}
}
