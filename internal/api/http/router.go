package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-gateway/internal/api/http/handlers"
	"github.com/spec-kit/portal-gateway/internal/auth"
	"github.com/spec-kit/portal-gateway/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Invite      *handlers.InviteHandler
	Invitations *handlers.InvitationsHandler
	Surfaces    *handlers.SurfaceHandler
	Session     *auth.SessionMiddleware
	Gate        *authz.SurfaceGate
}

// RegisterRoutes wires HTTP routes. The session middleware resolves the
// caller and the surface gate runs before every handler; route-level
// checks are therefore unnecessary.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Session.Handle)
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	apiAuth := app.Group("/api/auth")
	apiAuth.Post("/signin", cfg.Auth.SignIn)
	apiAuth.Post("/signout", cfg.Auth.SignOut)
	apiAuth.Post("/register", cfg.Auth.Register)
	apiAuth.Get("/session", cfg.Auth.Session)

	app.Get("/auth/signin", cfg.Auth.SignInPage)

	app.Get("/invite/:token", cfg.Invite.Landing)
	app.Get("/invite/:token/accept", cfg.Invite.Accept)

	app.Get("/", cfg.Surfaces.Home)
	app.Get("/internal", cfg.Surfaces.Internal)
	app.Get("/partners", cfg.Surfaces.Partners)
	app.Get("/vendors", cfg.Surfaces.Vendors)

	admin := app.Group("/admin")
	admin.Get("", cfg.Surfaces.Admin)
	admin.Get("/invitations", cfg.Invitations.List)
	admin.Post("/invitations", cfg.Invitations.Issue)
	admin.Delete("/invitations/:token", cfg.Invitations.Revoke)
}
