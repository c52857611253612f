// Package domain contains core concepts of the messaging system.
// This file defines User identities and the role enumeration.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role belongs to the fixed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleHost, RoleAdmin:
		return true
	}
	return false
}

// User is an identity record. The ID and Email are globally unique,
// the ID is immutable once assigned.
type User struct {
	ID          uuid.UUID
	Email       string
	Username    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        Role
	CreatedAt   time.Time
}
