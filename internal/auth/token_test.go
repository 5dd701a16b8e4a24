package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	orgID := "org-1"
	user := &domain.User{
		ID:    "user-1",
		Email: "member@x.com",
		Role:  domain.RolePartnerViewer,
		OrgID: &orgID,
	}

	tokenStr, exp, err := tm.GenerateToken(user, []string{"docs:read"})
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(tokenStr)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "member@x.com", claims.Email)
	require.Equal(t, domain.RolePartnerViewer, claims.Role)
	require.NotEmpty(t, claims.ID)

	session := claims.Session()
	require.Equal(t, "user-1", session.UserID)
	require.Equal(t, domain.RolePartnerViewer, session.Role)
	require.True(t, session.HasPermission("docs:read"))
	require.False(t, session.HasPermission("docs:write"))
	require.NotNil(t, session.OrgID)
	require.Equal(t, "org-1", *session.OrgID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", 30)
	user := &domain.User{ID: "user-1", Email: "m@x.com", Role: domain.RoleEditor}

	tokenStr, _, err := tm.GenerateToken(user, nil)
	require.NoError(t, err)

	other := NewTokenManager("secret-b", 30)
	_, err = other.ParseToken(tokenStr)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	_, err := tm.ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestSessionTokensGetUniqueIDs(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)
	user := &domain.User{ID: "user-1", Email: "m@x.com", Role: domain.RoleEditor}

	first, _, err := tm.GenerateToken(user, nil)
	require.NoError(t, err)
	second, _, err := tm.GenerateToken(user, nil)
	require.NoError(t, err)

	claimsA, err := tm.ParseToken(first)
	require.NoError(t, err)
	claimsB, err := tm.ParseToken(second)
	require.NoError(t, err)
	require.NotEqual(t, claimsA.ID, claimsB.ID)
}
