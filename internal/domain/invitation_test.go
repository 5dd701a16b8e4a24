package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEffectiveState(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		status    InvitationStatus
		expiresAt time.Time
		want      InvitationState
	}{
		{"accepted", InvitationStatusAccepted, now.Add(-time.Hour), InvitationStateAccepted},
		{"revoked", InvitationStatusRevoked, now.Add(time.Hour), InvitationStateRevoked},
		{"unrecognized terminal status reads as revoked", InvitationStatus("declined"), now.Add(time.Hour), InvitationStateRevoked},
		{"pending and future expiry", InvitationStatusPending, now.Add(time.Hour), InvitationStatePendingValid},
		{"pending past expiry", InvitationStatusPending, now.Add(-time.Second), InvitationStateExpired},
		{"pending exactly at expiry", InvitationStatusPending, now, InvitationStatePendingValid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invitation := &Invitation{Status: tc.status, ExpiresAt: tc.expiresAt}
			require.Equal(t, tc.want, invitation.EffectiveState(now))
		})
	}
}

func TestEffectiveStateIsDerivedNotStored(t *testing.T) {
	invitation := &Invitation{
		Status:    InvitationStatusPending,
		ExpiresAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	before := invitation.ExpiresAt.Add(-time.Minute)
	after := invitation.ExpiresAt.Add(time.Minute)

	// The same row reads as valid before the deadline and expired after,
	// with no write in between.
	require.Equal(t, InvitationStatePendingValid, invitation.EffectiveState(before))
	require.Equal(t, InvitationStateExpired, invitation.EffectiveState(after))
	require.Equal(t, InvitationStatusPending, invitation.Status)
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles {
		parsed, err := ParseRole(string(role))
		require.NoError(t, err)
		require.Equal(t, role, parsed)
	}

	_, err := ParseRole("superuser")
	require.Error(t, err)

	_, err = ParseRole("")
	require.Error(t, err)
}
