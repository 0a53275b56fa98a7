package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EntityFollowUp = "follow_up"
	EntityMeeting  = "meeting"
	EntityTodo     = "todo"
	EntityTicket   = "ticket"
)

var EntityTypes = []string{EntityFollowUp, EntityMeeting, EntityTodo, EntityTicket}

// Notification is a reminder or alert addressed to a user.
type Notification struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"userId"`
	EntityType   string     `json:"entityType"`
	EntityID     uuid.UUID  `json:"entityId"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	ScheduledFor time.Time  `json:"scheduledFor"`
	Delivered    bool       `json:"delivered"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
	ReadAt       *time.Time `json:"readAt,omitempty"`
	Cancelled    bool       `json:"cancelled"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Key identifies the reminder timer of a notification.
func (n Notification) Key() string {
	return fmt.Sprintf("%s:%s:%s", n.EntityType, n.EntityID, n.ID)
}

// NewReminder builds the notification scheduled ahead of an entity's due time.
// It returns nil when minutesBefore is negative.
func NewReminder(userID uuid.UUID, entityType string, entityID uuid.UUID, title, message string, due time.Time, minutesBefore int) *Notification {
	if minutesBefore < 0 {
		return nil
	}
	if minutesBefore == 0 {
		minutesBefore = DefaultReminderMinutes
	}
	return &Notification{
		UserID:       userID,
		EntityType:   entityType,
		EntityID:     entityID,
		Title:        title,
		Message:      message,
		ScheduledFor: due.Add(-time.Duration(minutesBefore) * time.Minute),
	}
}
