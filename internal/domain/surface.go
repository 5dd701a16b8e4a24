package domain

// Surface identifies a top-level, role-gated area of the portal.
type Surface string

const (
	SurfaceInternal  Surface = "internal"
	SurfaceAdmin     Surface = "admin"
	SurfacePartners  Surface = "partners"
	SurfaceVendors   Surface = "vendors"
	SurfaceAuth      Surface = "auth"
	SurfaceInvite    Surface = "invite"
	SurfacePublicAPI Surface = "public-api"
)

// ProtectedSurfaces are the surfaces subject to the role policy. Auth,
// invite and the public API are reachable without a session.
var ProtectedSurfaces = []Surface{
	SurfaceInternal,
	SurfaceAdmin,
	SurfacePartners,
	SurfaceVendors,
}
