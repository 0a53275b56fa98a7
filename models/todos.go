package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var TodoPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Todo is a personal task of a user.
type Todo struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	// ReminderMinutes works as FollowUp.ReminderMinutes. Only used when DueDate is set.
	ReminderMinutes int `json:"reminderMinutes,omitempty"`
}

func (t Todo) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&t.Priority, validation.Required, oneOf(TodoPriorities)),
		validation.Field(&t.ReminderMinutes, validation.Max(7*24*60)),
	)
}
