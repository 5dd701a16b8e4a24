package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

// TokenManager handles issuing and validating session JWTs.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// SessionClaims describes the JWT payload. A session is rebuilt from
// claims alone on every request, so everything the surface gate needs
// rides in the token.
type SessionClaims struct {
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	Permissions []string    `json:"permissions,omitempty"`
	OrgID       *string     `json:"org_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a session JWT for the user.
func (tm *TokenManager) GenerateToken(user *domain.User, permissions []string) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &SessionClaims{
		Email:       user.Email,
		Role:        user.Role,
		Permissions: permissions,
		OrgID:       user.OrgID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Session projects the claims into the per-request session value.
func (c *SessionClaims) Session() *domain.Session {
	permissions := make(map[string]struct{}, len(c.Permissions))
	for _, name := range c.Permissions {
		permissions[name] = struct{}{}
	}
	return &domain.Session{
		UserID:      c.Subject,
		Email:       c.Email,
		Role:        c.Role,
		Permissions: permissions,
		OrgID:       c.OrgID,
	}
}
