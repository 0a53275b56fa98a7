package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// Client is a customer organisation or person that leads and tickets belong to.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Company   *string   `json:"company,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Industry  *string   `json:"industry,omitempty"`
	CreatedBy uuid.UUID `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Client) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&c.Company, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&c.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&c.Phone, validation.NilOrNotEmpty, validation.Length(5, 32)),
	)
}
