package domain

import "fmt"

// Role enumerates portal membership roles. The set is closed: adding a
// role requires updating the surface policy in internal/authz.
type Role string

const (
	RoleOwner          Role = "owner"
	RoleAdmin          Role = "admin"
	RoleEditor         Role = "editor"
	RoleInternalViewer Role = "internal_viewer"
	RolePartnerViewer  Role = "partner_viewer"
	RoleVendorViewer   Role = "vendor_viewer"
)

// Roles lists every member of the closed enumeration.
var Roles = []Role{
	RoleOwner,
	RoleAdmin,
	RoleEditor,
	RoleInternalViewer,
	RolePartnerViewer,
	RoleVendorViewer,
}

// ParseRole validates a raw string against the closed enumeration.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleInternalViewer, RolePartnerViewer, RoleVendorViewer:
		return true
	}
	return false
}
