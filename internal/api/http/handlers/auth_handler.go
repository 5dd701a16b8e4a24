package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-gateway/internal/api/dto"
	"github.com/spec-kit/portal-gateway/internal/auth"
	"github.com/spec-kit/portal-gateway/internal/authz"
	"github.com/spec-kit/portal-gateway/internal/service"
)

// AuthHandler exposes the authentication endpoints under /api/auth and
// the public sign-in page data under /auth.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignInPage handles GET /auth/signin. The gate already redirects
// authenticated visitors away, so this only ever renders for anonymous
// callers.
func (h *AuthHandler) SignInPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":        "signin",
		"callbackUrl": c.Query("callbackUrl", "/"),
	})
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, token, exp, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
			"auth":        dto.AuthResponse{Token: token, ExpiresAt: exp},
			"callbackUrl": c.Query("callbackUrl", authz.HomePath(user.Role)),
		},
	})
}

// SignOut handles POST /api/auth/signout.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	if cookie := c.Cookies(auth.SessionCookieName); cookie != "" {
		if err := h.auth.SignOut(c.UserContext(), cookie); err != nil {
			return err
		}
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"signed_out": true}})
}

// Register handles POST /api/auth/register: account creation from a
// pending invitation, applying its role grant.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.Name == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "token, name, password required")
	}

	user, token, exp, err := h.auth.RegisterFromInvitation(c.UserContext(), req.Token, req.Name, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, exp)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
			"auth":        dto.AuthResponse{Token: token, ExpiresAt: exp},
			"callbackUrl": authz.HomePath(user.Role),
		},
	})
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session := auth.SessionFromContext(c)
	if session == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		UserID: session.UserID,
		Email:  session.Email,
		Role:   string(session.Role),
		OrgID:  session.OrgID,
	}})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
