package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-gateway/internal/auth"
	"github.com/spec-kit/portal-gateway/internal/authz"
	"github.com/spec-kit/portal-gateway/internal/domain"
)

// SurfaceHandler serves the landing data for each gated surface. The
// gate has already authorized the session by the time these run.
type SurfaceHandler struct{}

// NewSurfaceHandler constructs handler.
func NewSurfaceHandler() *SurfaceHandler {
	return &SurfaceHandler{}
}

// Home handles GET /, pointing the member at their default surface.
func (h *SurfaceHandler) Home(c *fiber.Ctx) error {
	session := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"email": session.Email,
			"role":  session.Role,
			"home":  authz.HomePath(session.Role),
		},
	})
}

// Internal handles GET /internal.
func (h *SurfaceHandler) Internal(c *fiber.Ctx) error {
	return h.surface(c, domain.SurfaceInternal)
}

// Admin handles GET /admin.
func (h *SurfaceHandler) Admin(c *fiber.Ctx) error {
	return h.surface(c, domain.SurfaceAdmin)
}

// Partners handles GET /partners.
func (h *SurfaceHandler) Partners(c *fiber.Ctx) error {
	return h.surface(c, domain.SurfacePartners)
}

// Vendors handles GET /vendors.
func (h *SurfaceHandler) Vendors(c *fiber.Ctx) error {
	return h.surface(c, domain.SurfaceVendors)
}

func (h *SurfaceHandler) surface(c *fiber.Ctx, surface domain.Surface) error {
	session := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"surface": surface,
			"email":   session.Email,
			"role":    session.Role,
		},
	})
}
