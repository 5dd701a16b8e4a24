package domain

// Session is the per-request projection of an authenticated identity.
// It is resolved by the authentication middleware upstream of the surface
// gate and lives for one request; nothing here mutates it.
type Session struct {
	UserID      string
	Email       string
	Role        Role
	Permissions map[string]struct{}
	OrgID       *string
}

// HasPermission reports whether the session carries a named permission.
func (s *Session) HasPermission(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Permissions[name]
	return ok
}
