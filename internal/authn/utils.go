package authn

import (
	"errors"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")

// Claims are the identity provider's access token claims. The subject is the user id.
type Claims struct {
	jwt.StandardClaims
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	AppMetadata struct {
		Role     string `json:"role"`
		TeamType string `json:"team_type"`
	} `json:"app_metadata"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

// UserID returns the subject as a UUID.
func (c Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}
	return id, nil
}

// Role returns the CRM role carried in the token, defaulting to agent.
func (c Claims) Role() string {
	switch c.AppMetadata.Role {
	case "admin", "manager":
		return c.AppMetadata.Role
	}
	return "agent"
}

// IsPrivileged reports whether the caller may see every agent's rows.
func (c Claims) IsPrivileged() bool {
	return c.Role() != "agent"
}

// ParseClaims decodes the token claims. When secret is empty the signature is not
// checked and the gateway in front of the service is trusted to have done so.
// Otherwise the token must be HS256 signed with secret and unexpired.
func ParseClaims(token, secret string) (Claims, error) {
	claims := Claims{}

	if secret != "" {
		t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidJWT
			}
			return []byte(secret), nil
		})
		if err != nil || !t.Valid {
			return claims, ErrInvalidJWT
		}
	} else if t, err := jwt.ParseWithClaims(token, &claims, nil); err != nil {
		// Ignore validation errors (no need to check signing of key)
		if _, ok := err.(*jwt.ValidationError); !ok {
			return claims, ErrInvalidJWT
		}

		// Check if token was decoded successfully
		if t == nil {
			return claims, ErrInvalidClaims
		}
	}

	if _, err := claims.UserID(); err != nil {
		return claims, err
	}
	return claims, nil
}
