package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	ContentEmail  = "email"
	ContentSocial = "social"
	ContentSMS    = "sms"
	ContentBlog   = "blog"
)

var ContentTypes = []string{ContentEmail, ContentSocial, ContentSMS, ContentBlog}

// HubContent is a piece of generated marketing content saved by a user.
type HubContent struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	ContentType string    `json:"contentType"`
	Topic       string    `json:"topic"`
	Tone        *string   `json:"tone,omitempty"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ContentRequest asks the backend service to generate marketing content.
type ContentRequest struct {
	ContentType string  `json:"contentType"`
	Topic       string  `json:"topic"`
	Tone        *string `json:"tone,omitempty"`
	Audience    *string `json:"audience,omitempty"`
}

func (c ContentRequest) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ContentType, validation.Required, oneOf(ContentTypes)),
		validation.Field(&c.Topic, validation.Required, validation.Length(1, 500)),
		validation.Field(&c.Tone, validation.NilOrNotEmpty, validation.Length(1, 64)),
	)
}

// AssistRequest is a free-form prompt for the generative text API.
type AssistRequest struct {
	Prompt string `json:"prompt"`
}

func (a AssistRequest) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Prompt, validation.Required, validation.Length(1, 8000)),
	)
}

// AssistResponse carries generated text back to the caller.
type AssistResponse struct {
	Text string `json:"text"`
}
