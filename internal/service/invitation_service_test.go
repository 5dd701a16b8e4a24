package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-gateway/internal/config"
	"github.com/spec-kit/portal-gateway/internal/domain"
)

func newTestInvitationService(repo *fakeInvitationRepo) *InvitationService {
	return NewInvitationService(config.InviteConfig{TTLHours: 24}, repo, nil)
}

func adminSession() *domain.Session {
	return &domain.Session{UserID: "admin-1", Email: "admin@x.com", Role: domain.RoleAdmin}
}

func TestIssueCreatesPendingInvitation(t *testing.T) {
	repo := newFakeInvitationRepo()
	svc := newTestInvitationService(repo)

	invitation, err := svc.Issue(context.Background(), adminSession(), "new@x.com", "partner_viewer", nil)
	require.NoError(t, err)
	require.NotEmpty(t, invitation.Token)
	require.Equal(t, domain.InvitationStatusPending, invitation.Status)
	require.Equal(t, domain.RolePartnerViewer, invitation.Role)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), invitation.ExpiresAt, 5*time.Second)
	require.NotNil(t, invitation.CreatedBy)
	require.Equal(t, "admin-1", *invitation.CreatedBy)
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	svc := newTestInvitationService(newFakeInvitationRepo())

	_, err := svc.Issue(context.Background(), adminSession(), "new@x.com", "superuser", nil)
	require.Error(t, err)
}

func TestIssueRejectsMissingEmail(t *testing.T) {
	svc := newTestInvitationService(newFakeInvitationRepo())

	_, err := svc.Issue(context.Background(), adminSession(), "", "editor", nil)
	require.Error(t, err)
}

func TestRevokePendingInvitation(t *testing.T) {
	repo := newFakeInvitationRepo()
	repo.put(pendingInvitation("tok-r", "a@x.com", domain.RoleEditor, time.Now().Add(time.Hour)))
	svc := newTestInvitationService(repo)

	require.NoError(t, svc.Revoke(context.Background(), adminSession(), "tok-r"))

	stored, err := repo.GetByToken(context.Background(), "tok-r")
	require.NoError(t, err)
	require.Equal(t, domain.InvitationStatusRevoked, stored.Status)
}

func TestRevokeAcceptedInvitationConflicts(t *testing.T) {
	repo := newFakeInvitationRepo()
	invitation := pendingInvitation("tok-a", "a@x.com", domain.RoleEditor, time.Now().Add(time.Hour))
	invitation.Status = domain.InvitationStatusAccepted
	repo.put(invitation)
	svc := newTestInvitationService(repo)

	// Terminal states are permanent.
	err := svc.Revoke(context.Background(), adminSession(), "tok-a")
	require.Error(t, err)

	stored, getErr := repo.GetByToken(context.Background(), "tok-a")
	require.NoError(t, getErr)
	require.Equal(t, domain.InvitationStatusAccepted, stored.Status)
}

func TestRevokeUnknownTokenNotFound(t *testing.T) {
	svc := newTestInvitationService(newFakeInvitationRepo())

	err := svc.Revoke(context.Background(), adminSession(), "missing")
	require.Error(t, err)
}

func TestGrantIsAppliedAtMostOnce(t *testing.T) {
	repo := newFakeInvitationRepo()
	repo.put(pendingInvitation("tok-once", "a@x.com", domain.RoleEditor, time.Now().Add(time.Hour)))

	applied, err := repo.ApplyGrant(context.Background(), "tok-once")
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = repo.ApplyGrant(context.Background(), "tok-once")
	require.NoError(t, err)
	require.False(t, applied)

	require.Equal(t, 1, repo.grants)
	require.Equal(t, 2, repo.grantCalls)
}
