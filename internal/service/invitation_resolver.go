package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-gateway/internal/authz"
	"github.com/spec-kit/portal-gateway/internal/domain"
	"github.com/spec-kit/portal-gateway/internal/events"
	"github.com/spec-kit/portal-gateway/internal/repository"
)

// ResolutionKind enumerates resolver outcomes.
type ResolutionKind string

const (
	ResolutionRedirect ResolutionKind = "redirect"
	ResolutionMismatch ResolutionKind = "mismatch"
	ResolutionNotFound ResolutionKind = "not_found"
)

// MismatchView names both identities when the signed-in account does not
// match the invited address, so the page can tell the user to sign out
// and retry with the correct account.
type MismatchView struct {
	InvitedEmail string
	SessionEmail string
}

// Resolution is the resolver's verdict for an acceptance attempt.
type Resolution struct {
	Kind     ResolutionKind
	Location string
	Mismatch *MismatchView
}

func redirectTo(location string) Resolution {
	return Resolution{Kind: ResolutionRedirect, Location: location}
}

// InvitationResolver decides what the invitation acceptance route should
// do for a given token and session. It evaluates the invitation's
// effective state fresh on every call and performs no mutation other
// than the conditional, idempotent grant application.
type InvitationResolver struct {
	invitations repository.InvitationRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	now         func() time.Time
}

// NewInvitationResolver constructs the resolver.
func NewInvitationResolver(invitations repository.InvitationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *InvitationResolver {
	return &InvitationResolver{
		invitations: invitations,
		dispatcher:  dispatcher,
		logger:      logger,
		now:         time.Now,
	}
}

// Resolve runs the ordered decision sequence for the acceptance route.
// Later steps assume earlier ones have excluded their cases, so the
// order is load-bearing.
func (r *InvitationResolver) Resolve(ctx context.Context, token string, session *domain.Session) (Resolution, error) {
	// An anonymous visitor goes to the token-scoped landing page, which
	// carries enough context to route them into sign-in and back.
	if session == nil {
		return redirectTo("/invite/" + token), nil
	}

	invitation, err := r.invitations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resolution{Kind: ResolutionNotFound}, nil
		}
		return Resolution{}, err
	}

	switch invitation.EffectiveState(r.now()) {
	case domain.InvitationStateAccepted:
		// Grant already applied; redirection is all that is left.
		return redirectTo(authz.HomePath(invitation.Role)), nil

	case domain.InvitationStateRevoked:
		return redirectTo("/"), nil

	case domain.InvitationStateExpired:
		// Recoverable: the landing page offers a path to request a fresh
		// invitation.
		return redirectTo("/invite/" + token), nil
	}

	// Pending and unexpired: the signed-in identity must match the
	// invited address exactly.
	if session.Email != invitation.Email {
		return Resolution{
			Kind: ResolutionMismatch,
			Mismatch: &MismatchView{
				InvitedEmail: invitation.Email,
				SessionEmail: session.Email,
			},
		}, nil
	}

	// Apply the grant through the conditional update. A concurrent
	// redemption attempt for the same token loses the update race,
	// observes already-applied here, and takes the same redirect.
	applied, err := r.invitations.ApplyGrant(ctx, token)
	if err != nil {
		return Resolution{}, err
	}
	if applied {
		r.logger.Info("invitation grant applied",
			zap.String("token", invitation.Token),
			zap.String("role", string(invitation.Role)))
		r.publishRedeemed(ctx, invitation, session)
	}

	return redirectTo(authz.HomePath(invitation.Role)), nil
}

func (r *InvitationResolver) publishRedeemed(ctx context.Context, invitation *domain.Invitation, session *domain.Session) {
	if r.dispatcher == nil {
		return
	}
	_ = r.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventInvitationRedeemed,
		Subject:   invitation.Token,
		Actor:     events.Actor{UserID: &session.UserID, Role: &session.Role},
		Timestamp: r.now(),
		Payload: events.InvitationRedeemedPayload{
			Email: invitation.Email,
			Role:  invitation.Role,
		},
	})
}
