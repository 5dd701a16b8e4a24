package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portal-gateway/internal/api/dto"
	"github.com/spec-kit/portal-gateway/internal/auth"
	"github.com/spec-kit/portal-gateway/internal/repository"
	"github.com/spec-kit/portal-gateway/internal/service"
	apperrors "github.com/spec-kit/portal-gateway/pkg/util/errorutil"
)

// InviteHandler serves the public invitation landing page and the
// acceptance route.
type InviteHandler struct {
	invitations repository.InvitationRepository
	resolver    *service.InvitationResolver
}

// NewInviteHandler constructs handler.
func NewInviteHandler(invitations repository.InvitationRepository, resolver *service.InvitationResolver) *InviteHandler {
	return &InviteHandler{invitations: invitations, resolver: resolver}
}

// Landing handles GET /invite/:token. Public: an anonymous visitor must
// be able to see the accept-or-decline page before signing in.
func (h *InviteHandler) Landing(c *fiber.Ctx) error {
	token := c.Params("token")

	invitation, err := h.invitations.GetByToken(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("invitation", nil)
		}
		return err
	}

	session := auth.SessionFromContext(c)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"invitation": fiber.Map{
				"email":      invitation.Email,
				"role":       invitation.Role,
				"state":      invitation.EffectiveState(time.Now()),
				"expires_at": invitation.ExpiresAt,
			},
			"signed_in":  session != nil,
			"accept_url": "/invite/" + token + "/accept",
		},
	})
}

// Accept handles GET /invite/:token/accept by delegating to the
// resolver and translating its verdict to HTTP.
func (h *InviteHandler) Accept(c *fiber.Ctx) error {
	token := c.Params("token")
	session := auth.SessionFromContext(c)

	resolution, err := h.resolver.Resolve(c.UserContext(), token, session)
	if err != nil {
		return err
	}

	switch resolution.Kind {
	case service.ResolutionRedirect:
		return c.Redirect(resolution.Location, fiber.StatusFound)
	case service.ResolutionMismatch:
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"data": dto.MismatchResponse{
				Code:         "EMAIL_MISMATCH",
				InvitedEmail: resolution.Mismatch.InvitedEmail,
				SessionEmail: resolution.Mismatch.SessionEmail,
				Message:      "this invitation was issued to a different address; sign out and retry with the invited account",
			},
		})
	default:
		return apperrors.NewNotFound("invitation", nil)
	}
}
