package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portal-gateway/internal/auth"
	"github.com/spec-kit/portal-gateway/internal/config"
	"github.com/spec-kit/portal-gateway/internal/domain"
	"github.com/spec-kit/portal-gateway/internal/events"
	"github.com/spec-kit/portal-gateway/internal/repository"
	apperrors "github.com/spec-kit/portal-gateway/pkg/util/errorutil"
)

// AuthService coordinates sign-in, sign-out and invitation-backed
// registration. Registration is where the invitation's role grant is
// applied, via the same conditional update the resolver uses, so the
// resolver only ever redirects for an already-granted invitation.
type AuthService struct {
	users       repository.UserRepository
	invitations repository.InvitationRepository
	tokenMgr    *auth.TokenManager
	revoker     *auth.SessionRevoker
	dispatcher  events.Dispatcher
	bcryptCost  int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	InvitationRepo repository.InvitationRepository
	Revoker        *auth.SessionRevoker
	Dispatcher     events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		invitations: deps.InvitationRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		revoker:     deps.Revoker,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// SignIn authenticates a portal member and issues a role-bearing session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserSignedIn,
		Subject:   user.ID,
		Actor:     events.Actor{UserID: &user.ID, Role: &user.Role},
		Timestamp: time.Now(),
		Payload:   events.UserSignedInPayload{Email: user.Email, Role: user.Role},
	})

	return user, token, exp, nil
}

// SignOut revokes the presented session token until it would have
// expired on its own. An unparsable token is already not a session.
func (s *AuthService) SignOut(ctx context.Context, tokenStr string) error {
	claims, err := s.tokenMgr.ParseToken(tokenStr)
	if err != nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// RegisterFromInvitation creates an account for a pending, unexpired
// invitation and applies its role grant. The account takes the invited
// email, so the identity-match requirement holds by construction.
func (s *AuthService) RegisterFromInvitation(ctx context.Context, token, name, password string) (*domain.User, string, time.Time, error) {
	invitation, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewNotFound("invitation", nil)
		}
		return nil, "", time.Time{}, err
	}

	switch invitation.EffectiveState(time.Now()) {
	case domain.InvitationStatePendingValid:
	case domain.InvitationStateExpired:
		return nil, "", time.Time{}, apperrors.NewConflict("invitation expired", nil)
	default:
		return nil, "", time.Time{}, apperrors.NewConflict("invitation no longer redeemable", nil)
	}

	if _, err := s.users.GetByEmail(ctx, invitation.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        invitation.Email,
		PasswordHash: hash,
		Role:         invitation.Role,
		OrgID:        invitation.OrgID,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	applied, err := s.invitations.ApplyGrant(ctx, token)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if applied {
		s.publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventInvitationRedeemed,
			Subject:   invitation.Token,
			Actor:     events.Actor{UserID: &user.ID, Role: &user.Role},
			Timestamp: time.Now(),
			Payload:   events.InvitationRedeemedPayload{Email: invitation.Email, Role: invitation.Role},
		})
	}

	sessionToken, exp, err := s.tokenMgr.GenerateToken(user, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, sessionToken, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
