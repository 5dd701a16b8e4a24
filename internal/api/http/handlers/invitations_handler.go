package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-gateway/internal/api/dto"
	"github.com/spec-kit/portal-gateway/internal/auth"
	"github.com/spec-kit/portal-gateway/internal/domain"
	"github.com/spec-kit/portal-gateway/internal/repository"
	"github.com/spec-kit/portal-gateway/internal/service"
)

// InvitationsHandler exposes invitation administration under /admin.
// The surface gate confines /admin to the owner and admin roles.
type InvitationsHandler struct {
	invitations *service.InvitationService
}

// NewInvitationsHandler constructs handler.
func NewInvitationsHandler(invitations *service.InvitationService) *InvitationsHandler {
	return &InvitationsHandler{invitations: invitations}
}

// Issue handles POST /admin/invitations.
func (h *InvitationsHandler) Issue(c *fiber.Ctx) error {
	var req dto.IssueInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	invitation, err := h.invitations.Issue(c.UserContext(), auth.SessionFromContext(c), req.Email, req.Role, req.OrgID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewInvitationResponse(invitation),
	})
}

// List handles GET /admin/invitations.
func (h *InvitationsHandler) List(c *fiber.Ctx) error {
	filter := repository.InvitationFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.InvitationStatus(raw)
		filter.Status = &status
	}
	if email := c.Query("email"); email != "" {
		filter.Email = &email
	}

	invitations, err := h.invitations.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	responses := make([]dto.InvitationResponse, 0, len(invitations))
	for i := range invitations {
		responses = append(responses, dto.NewInvitationResponse(&invitations[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Revoke handles DELETE /admin/invitations/:token.
func (h *InvitationsHandler) Revoke(c *fiber.Ctx) error {
	if err := h.invitations.Revoke(c.UserContext(), auth.SessionFromContext(c), c.Params("token")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"revoked": true}})
}
