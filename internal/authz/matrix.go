package authz

import (
	"fmt"

	"github.com/spec-kit/portal-gateway/internal/domain"
)

// ErrUnknownRole signals a role outside the closed enumeration. It is a
// policy/data integrity error and must never degrade to a silent allow or
// deny decision.
var ErrUnknownRole = fmt.Errorf("authz: unknown role")

// surfaceMatrix is the closed role → surface policy. It is constructed
// once and never mutated at runtime; policy changes are code changes.
//
// Internal roles implicitly reach the partners and vendors surfaces;
// partner and vendor viewers are confined to their own surface.
var surfaceMatrix = map[domain.Role]map[domain.Surface]struct{}{
	domain.RoleOwner: {
		domain.SurfaceInternal: {},
		domain.SurfaceAdmin:    {},
		domain.SurfacePartners: {},
		domain.SurfaceVendors:  {},
	},
	domain.RoleAdmin: {
		domain.SurfaceInternal: {},
		domain.SurfaceAdmin:    {},
		domain.SurfacePartners: {},
		domain.SurfaceVendors:  {},
	},
	domain.RoleEditor: {
		domain.SurfaceInternal: {},
		domain.SurfacePartners: {},
		domain.SurfaceVendors:  {},
	},
	domain.RoleInternalViewer: {
		domain.SurfaceInternal: {},
		domain.SurfacePartners: {},
		domain.SurfaceVendors:  {},
	},
	domain.RolePartnerViewer: {
		domain.SurfacePartners: {},
	},
	domain.RoleVendorViewer: {
		domain.SurfaceVendors: {},
	},
}

// AllowedSurfaces returns the set of protected surfaces the role may
// enter. Every role in the closed enumeration maps to a non-empty set.
func AllowedSurfaces(role domain.Role) (map[domain.Surface]struct{}, error) {
	surfaces, ok := surfaceMatrix[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return surfaces, nil
}

// IsAllowed reports whether the role may enter the surface.
func IsAllowed(role domain.Role, surface domain.Surface) (bool, error) {
	surfaces, err := AllowedSurfaces(role)
	if err != nil {
		return false, err
	}
	_, allowed := surfaces[surface]
	return allowed, nil
}

// HomePath resolves the default landing route for a role. Roles outside
// the closed enumeration land on the root.
func HomePath(role domain.Role) string {
	switch role {
	case domain.RoleOwner, domain.RoleAdmin, domain.RoleEditor, domain.RoleInternalViewer:
		return "/internal"
	case domain.RolePartnerViewer:
		return "/partners"
	case domain.RoleVendorViewer:
		return "/vendors"
	default:
		return "/"
	}
}
