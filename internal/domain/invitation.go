package domain

import "time"

// InvitationStatus represents stored lifecycle states for an invitation.
// Transitions are monotonic: pending → accepted or pending → revoked.
// Expiry is never stored; it is derived at read time from ExpiresAt.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRevoked  InvitationStatus = "revoked"
)

// InvitationState is the effective state of an invitation as evaluated at
// a point in time, incorporating lazy expiry.
type InvitationState string

const (
	InvitationStateAccepted     InvitationState = "accepted"
	InvitationStateRevoked      InvitationState = "revoked"
	InvitationStateExpired      InvitationState = "expired"
	InvitationStatePendingValid InvitationState = "pending_valid"
)

// Invitation is a one-time role grant offer issued to an email address.
type Invitation struct {
	ID         string
	Token      string
	Email      string
	Role       Role
	OrgID      *string
	Status     InvitationStatus
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectiveState computes the invitation's state at the given instant.
// A pending row past ExpiresAt reads as expired without any write; any
// stored status other than pending or accepted reads as revoked.
func (i *Invitation) EffectiveState(now time.Time) InvitationState {
	switch {
	case i.Status == InvitationStatusAccepted:
		return InvitationStateAccepted
	case i.Status != InvitationStatusPending:
		return InvitationStateRevoked
	case i.ExpiresAt.Before(now):
		return InvitationStateExpired
	default:
		return InvitationStatePendingValid
	}
}
