package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portal-gateway/internal/domain"
	"github.com/spec-kit/portal-gateway/internal/repository"
)

// fakeInvitationRepo is an in-memory InvitationRepository mirroring the
// conditional-update semantics of the Postgres implementation.
type fakeInvitationRepo struct {
	mu         sync.Mutex
	byToken    map[string]*domain.Invitation
	grantCalls int
	grants     int
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byToken: make(map[string]*domain.Invitation)}
}

func (f *fakeInvitationRepo) put(invitation *domain.Invitation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *invitation
	f.byToken[invitation.Token] = &copied
}

func (f *fakeInvitationRepo) Create(_ context.Context, invitation *domain.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invitation.ID = uuid.NewString()
	invitation.CreatedAt = time.Now()
	invitation.UpdatedAt = invitation.CreatedAt
	copied := *invitation
	f.byToken[invitation.Token] = &copied
	return nil
}

func (f *fakeInvitationRepo) GetByToken(_ context.Context, token string) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invitation, ok := f.byToken[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *invitation
	return &copied, nil
}

func (f *fakeInvitationRepo) List(_ context.Context, filter repository.InvitationFilter) ([]domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Invitation
	for _, invitation := range f.byToken {
		if filter.Status != nil && invitation.Status != *filter.Status {
			continue
		}
		if filter.Email != nil && invitation.Email != *filter.Email {
			continue
		}
		out = append(out, *invitation)
	}
	return out, nil
}

func (f *fakeInvitationRepo) ApplyGrant(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grantCalls++
	invitation, ok := f.byToken[token]
	if !ok || invitation.Status != domain.InvitationStatusPending {
		return false, nil
	}
	now := time.Now()
	invitation.Status = domain.InvitationStatusAccepted
	invitation.AcceptedAt = &now
	f.grants++
	return true, nil
}

func (f *fakeInvitationRepo) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invitation, ok := f.byToken[token]
	if !ok || invitation.Status != domain.InvitationStatusPending {
		return pgx.ErrNoRows
	}
	invitation.Status = domain.InvitationStatusRevoked
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	f.byID[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	f.byID[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}
