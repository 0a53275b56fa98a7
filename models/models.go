package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// User roles carried in profiles and token claims.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleAgent   = "agent"
)

// Team types used by profiles and daily reports.
const (
	TeamSales     = "sales"
	TeamMarketing = "marketing"
	TeamSupport   = "support"
)

var (
	Roles     = []string{RoleAdmin, RoleManager, RoleAgent}
	TeamTypes = []string{TeamSales, TeamMarketing, TeamSupport}
)

// oneOf builds an enum membership rule from a list of allowed strings.
func oneOf(values []string) validation.Rule {
	allowed := make([]interface{}, len(values))
	for i, v := range values {
		allowed[i] = v
	}
	return validation.In(allowed...).Error("must be one of the allowed values")
}

// Contains reports whether value is one of values.
func Contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
