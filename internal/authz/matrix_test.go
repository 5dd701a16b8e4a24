package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

// policyTable is the role → surface matrix the gate must enforce.
var policyTable = map[domain.Role]map[domain.Surface]bool{
	domain.RoleOwner: {
		domain.SurfaceInternal: true, domain.SurfaceAdmin: true,
		domain.SurfacePartners: true, domain.SurfaceVendors: true,
	},
	domain.RoleAdmin: {
		domain.SurfaceInternal: true, domain.SurfaceAdmin: true,
		domain.SurfacePartners: true, domain.SurfaceVendors: true,
	},
	domain.RoleEditor: {
		domain.SurfaceInternal: true, domain.SurfaceAdmin: false,
		domain.SurfacePartners: true, domain.SurfaceVendors: true,
	},
	domain.RoleInternalViewer: {
		domain.SurfaceInternal: true, domain.SurfaceAdmin: false,
		domain.SurfacePartners: true, domain.SurfaceVendors: true,
	},
	domain.RolePartnerViewer: {
		domain.SurfaceInternal: false, domain.SurfaceAdmin: false,
		domain.SurfacePartners: true, domain.SurfaceVendors: false,
	},
	domain.RoleVendorViewer: {
		domain.SurfaceInternal: false, domain.SurfaceAdmin: false,
		domain.SurfacePartners: false, domain.SurfaceVendors: true,
	},
}

func TestMatrixMatchesPolicyTable(t *testing.T) {
	for role, surfaces := range policyTable {
		for surface, want := range surfaces {
			got, err := IsAllowed(role, surface)
			require.NoError(t, err)
			require.Equal(t, want, got, "role=%s surface=%s", role, surface)
		}
	}
}

func TestEveryRoleHasSurfaces(t *testing.T) {
	for _, role := range domain.Roles {
		surfaces, err := AllowedSurfaces(role)
		require.NoError(t, err)
		require.NotEmpty(t, surfaces, "role %s must map to at least one surface", role)
	}
}

func TestUnlistedSurfacesAreDenied(t *testing.T) {
	// Surfaces outside the protected set never appear in the matrix.
	for _, role := range domain.Roles {
		for _, surface := range []domain.Surface{domain.SurfaceAuth, domain.SurfaceInvite, domain.SurfacePublicAPI} {
			allowed, err := IsAllowed(role, surface)
			require.NoError(t, err)
			require.False(t, allowed)
		}
	}
}

func TestUnknownRoleFailsFast(t *testing.T) {
	_, err := AllowedSurfaces(domain.Role("superuser"))
	require.ErrorIs(t, err, ErrUnknownRole)

	_, err = IsAllowed(domain.Role("superuser"), domain.SurfaceInternal)
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestHomePath(t *testing.T) {
	cases := map[domain.Role]string{
		domain.RoleOwner:          "/internal",
		domain.RoleAdmin:          "/internal",
		domain.RoleEditor:         "/internal",
		domain.RoleInternalViewer: "/internal",
		domain.RolePartnerViewer:  "/partners",
		domain.RoleVendorViewer:   "/vendors",
		domain.Role("mystery"):    "/",
	}
	for role, want := range cases {
		require.Equal(t, want, HomePath(role))
	}
}
