package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

func newTestGate() *SurfaceGate {
	return NewSurfaceGate(nil, zap.NewNop(), nil)
}

func session(role domain.Role) *domain.Session {
	return &domain.Session{UserID: "u1", Email: "member@x.com", Role: role}
}

func TestDecidePassthroughPaths(t *testing.T) {
	gate := newTestGate()

	for _, path := range []string{
		"/health/live",
		"/health/ready",
		"/api/auth/signin",
		"/api/auth/callback/provider",
		"/static/app.css",
		"/assets/logo.png",
		"/favicon.ico",
	} {
		decision, err := gate.Decide(path, nil)
		require.NoError(t, err)
		require.Equal(t, ActionAllow, decision.Action, "path %s", path)

		// Passthrough ignores authentication state.
		decision, err = gate.Decide(path, session(domain.RoleVendorViewer))
		require.NoError(t, err)
		require.Equal(t, ActionAllow, decision.Action, "path %s", path)
	}
}

func TestDecideAuthPages(t *testing.T) {
	gate := newTestGate()

	decision, err := gate.Decide("/auth/signin", nil)
	require.NoError(t, err)
	require.Equal(t, ActionAllow, decision.Action)

	// A signed-in visitor is bounced away to prevent re-auth loops.
	decision, err = gate.Decide("/auth/signin", session(domain.RoleEditor))
	require.NoError(t, err)
	require.Equal(t, ActionRedirect, decision.Action)
	require.Equal(t, "/", decision.Location)
}

func TestDecideInvitePagesAreAlwaysPublic(t *testing.T) {
	gate := newTestGate()

	decision, err := gate.Decide("/invite/tok-123", nil)
	require.NoError(t, err)
	require.Equal(t, ActionAllow, decision.Action)

	decision, err = gate.Decide("/invite/tok-123/accept", session(domain.RolePartnerViewer))
	require.NoError(t, err)
	require.Equal(t, ActionAllow, decision.Action)
}

func TestDecideUnauthenticatedRedirectsToSignIn(t *testing.T) {
	gate := newTestGate()

	decision, err := gate.Decide("/internal", nil)
	require.NoError(t, err)
	require.Equal(t, ActionRedirect, decision.Action)
	require.Equal(t, "/auth/signin?callbackUrl=%2Finternal", decision.Location)
}

func TestDecideSurfacePolicy(t *testing.T) {
	gate := newTestGate()

	cases := []struct {
		role     domain.Role
		path     string
		action   Action
		location string
	}{
		{domain.RoleVendorViewer, "/internal/docs", ActionRedirect, "/"},
		{domain.RolePartnerViewer, "/partners", ActionAllow, ""},
		{domain.RolePartnerViewer, "/vendors", ActionRedirect, "/"},
		{domain.RoleEditor, "/admin", ActionRedirect, "/"},
		{domain.RoleEditor, "/partners/catalog", ActionAllow, ""},
		{domain.RoleOwner, "/admin/invitations", ActionAllow, ""},
		{domain.RoleInternalViewer, "/internal", ActionAllow, ""},
	}

	for _, tc := range cases {
		decision, err := gate.Decide(tc.path, session(tc.role))
		require.NoError(t, err)
		require.Equal(t, tc.action, decision.Action, "role=%s path=%s", tc.role, tc.path)
		if tc.location != "" {
			require.Equal(t, tc.location, decision.Location)
		}
	}
}

func TestDecideUnmatchedPrefixOpenToAnySession(t *testing.T) {
	gate := newTestGate()

	for _, path := range []string{"/", "/settings", "/settings/profile", "/internals"} {
		decision, err := gate.Decide(path, session(domain.RoleVendorViewer))
		require.NoError(t, err)
		require.Equal(t, ActionAllow, decision.Action, "path %s", path)
	}
}

func TestDecideUnknownRoleFailsFast(t *testing.T) {
	gate := newTestGate()

	_, err := gate.Decide("/internal", session(domain.Role("superuser")))
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestHandleRedirectsOverHTTP(t *testing.T) {
	resolve := func(c *fiber.Ctx) *domain.Session {
		role := c.Get("X-Test-Role")
		if role == "" {
			return nil
		}
		return session(domain.Role(role))
	}
	gate := NewSurfaceGate(resolve, zap.NewNop(), nil)

	app := fiber.New()
	app.Use(gate.Handle)
	app.Get("/internal/docs", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/partners", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/internal/docs", nil)
	req.Header.Set("X-Test-Role", string(domain.RoleVendorViewer))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	req = httptest.NewRequest("GET", "/partners", nil)
	req.Header.Set("X-Test-Role", string(domain.RolePartnerViewer))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/internal/docs", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/auth/signin?callbackUrl=%2Finternal%2Fdocs", resp.Header.Get("Location"))
}
