package dto

import (
	"time"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

// IssueInvitationRequest payload for creating an invitation.
type IssueInvitationRequest struct {
	Email string  `json:"email"`
	Role  string  `json:"role"`
	OrgID *string `json:"org_id,omitempty"`
}

// InvitationResponse describes an invitation row.
type InvitationResponse struct {
	Token      string     `json:"token"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	OrgID      *string    `json:"org_id,omitempty"`
	Status     string     `json:"status"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewInvitationResponse maps the domain entity.
func NewInvitationResponse(invitation *domain.Invitation) InvitationResponse {
	return InvitationResponse{
		Token:      invitation.Token,
		Email:      invitation.Email,
		Role:       string(invitation.Role),
		OrgID:      invitation.OrgID,
		Status:     string(invitation.Status),
		ExpiresAt:  invitation.ExpiresAt,
		AcceptedAt: invitation.AcceptedAt,
		CreatedAt:  invitation.CreatedAt,
	}
}

// MismatchResponse renders the email mismatch state, naming both
// addresses so the user knows which account to retry with.
type MismatchResponse struct {
	Code         string `json:"code"`
	InvitedEmail string `json:"invited_email"`
	SessionEmail string `json:"session_email"`
	Message      string `json:"message"`
}
