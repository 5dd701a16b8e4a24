package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portal-gateway/internal/config"
	"github.com/spec-kit/portal-gateway/internal/domain"
	"github.com/spec-kit/portal-gateway/internal/events"
	"github.com/spec-kit/portal-gateway/internal/repository"
	apperrors "github.com/spec-kit/portal-gateway/pkg/util/errorutil"
)

// InvitationService handles issuing and revoking invitations from the
// admin surface.
type InvitationService struct {
	invitations repository.InvitationRepository
	dispatcher  events.Dispatcher
	ttl         time.Duration
}

// NewInvitationService builds the service.
func NewInvitationService(cfg config.InviteConfig, invitations repository.InvitationRepository, dispatcher events.Dispatcher) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		dispatcher:  dispatcher,
		ttl:         cfg.TTL(),
	}
}

// Issue creates a pending invitation with an opaque one-time token.
func (s *InvitationService) Issue(ctx context.Context, actor *domain.Session, email, rawRole string, orgID *string) (*domain.Invitation, error) {
	if email == "" {
		return nil, apperrors.NewValidationError("email required", nil)
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": rawRole})
	}

	invitation := &domain.Invitation{
		Token:     uuid.NewString(),
		Email:     email,
		Role:      role,
		OrgID:     orgID,
		Status:    domain.InvitationStatusPending,
		ExpiresAt: time.Now().Add(s.ttl),
		CreatedBy: &actor.UserID,
	}
	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, err
	}

	s.publish(ctx, actor, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventInvitationIssued,
		Subject:   invitation.Token,
		Timestamp: time.Now(),
		Payload: events.InvitationIssuedPayload{
			Token:     invitation.Token,
			Email:     invitation.Email,
			Role:      invitation.Role,
			ExpiresAt: invitation.ExpiresAt,
		},
	})

	return invitation, nil
}

// Revoke terminates a pending invitation. Accepted invitations are
// permanent and cannot be revoked.
func (s *InvitationService) Revoke(ctx context.Context, actor *domain.Session, token string) error {
	err := s.invitations.Revoke(ctx, token)
	if err == nil {
		s.publish(ctx, actor, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventInvitationRevoked,
			Subject:   token,
			Timestamp: time.Now(),
			Payload:   events.InvitationRevokedPayload{},
		})
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// Distinguish a missing token from a terminal one.
	if _, getErr := s.invitations.GetByToken(ctx, token); getErr != nil {
		if errors.Is(getErr, pgx.ErrNoRows) {
			return apperrors.NewNotFound("invitation", nil)
		}
		return getErr
	}
	return apperrors.NewConflict("invitation is no longer pending", nil)
}

// List returns invitations matching the filter.
func (s *InvitationService) List(ctx context.Context, filter repository.InvitationFilter) ([]domain.Invitation, error) {
	return s.invitations.List(ctx, filter)
}

func (s *InvitationService) publish(ctx context.Context, actor *domain.Session, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if actor != nil {
		event.Actor = events.Actor{UserID: &actor.UserID, Role: &actor.Role}
	}
	_ = s.dispatcher.Publish(ctx, event)
}
