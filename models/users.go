package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// UserProfile represents an agent, manager or admin of the CRM.
// The ID is the subject of the identity provider's token.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	TeamType  *string   `json:"teamType,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p UserProfile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FullName, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Email, validation.Required, is.EmailFormat),
		validation.Field(&p.Phone, validation.NilOrNotEmpty, validation.Length(5, 32)),
		validation.Field(&p.Role, validation.Required, oneOf(Roles)),
		validation.Field(&p.TeamType, validation.NilOrNotEmpty, oneOf(TeamTypes)),
	)
}

// IsPrivileged reports whether the profile may see every agent's rows.
func (p UserProfile) IsPrivileged() bool {
	return p.Role == RoleAdmin || p.Role == RoleManager
}
