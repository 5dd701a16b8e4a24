package domain

import "time"

// UserStatus represents lifecycle states for a portal account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for portal members across every surface.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	OrgID        *string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
