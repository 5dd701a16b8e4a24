package events

import (
	"time"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventInvitationIssued   EventType = "invitation_issued"
	EventInvitationRedeemed EventType = "invitation_redeemed"
	EventInvitationRevoked  EventType = "invitation_revoked"
	EventUserSignedIn       EventType = "user_signed_in"
)

// Actor encapsulates actor metadata for an event. A nil UserID means the
// event was produced by the system rather than a signed-in user.
type Actor struct {
	UserID *string      `json:"user_id,omitempty"`
	Role   *domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InvitationIssuedPayload payload.
type InvitationIssuedPayload struct {
	Token     string      `json:"token"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// InvitationRedeemedPayload payload.
type InvitationRedeemedPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// InvitationRevokedPayload payload.
type InvitationRevokedPayload struct {
	Email string `json:"email"`
}

// UserSignedInPayload payload.
type UserSignedInPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
