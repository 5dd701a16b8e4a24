package dto

import "time"

// SignInRequest payload for sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest payload for invitation-backed registration.
type RegisterRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the current session.
type SessionResponse struct {
	UserID string  `json:"user_id"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	OrgID  *string `json:"org_id,omitempty"`
}
