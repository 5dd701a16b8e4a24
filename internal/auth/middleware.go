package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

const sessionKey = "auth_session"

// SessionCookieName carries the session JWT for browser clients.
const SessionCookieName = "portal_session"

// SessionMiddleware resolves the request's session from a cookie or
// bearer token. It never rejects: requests without a valid token simply
// proceed anonymously, and the surface gate downstream decides.
type SessionMiddleware struct {
	tokens  *TokenManager
	revoker *SessionRevoker
	logger  *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, revoker *SessionRevoker, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, revoker: revoker, logger: logger}
}

// Handle resolves the session, if any, into request locals.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr := m.extractToken(c)
	if tokenStr == "" {
		return c.Next()
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		// Expired or tampered token: treat as anonymous.
		return c.Next()
	}

	revoked, err := m.revoker.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		m.logger.Warn("session revocation check failed", zap.Error(err))
	}
	if revoked {
		return c.Next()
	}

	c.Locals(sessionKey, claims.Session())
	return c.Next()
}

func (m *SessionMiddleware) extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// SessionFromContext retrieves the resolved session, nil when anonymous.
func SessionFromContext(c *fiber.Ctx) *domain.Session {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil
	}
	session, ok := val.(*domain.Session)
	if !ok {
		return nil
	}
	return session
}
