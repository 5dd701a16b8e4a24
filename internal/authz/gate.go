package authz

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-gateway/internal/domain"
	"github.com/spec-kit/portal-gateway/internal/observability"
	apperrors "github.com/spec-kit/portal-gateway/pkg/util/errorutil"
)

// Action enumerates gate verdicts.
type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
)

// Decision is the gate's verdict for a single request.
type Decision struct {
	Action   Action
	Location string
}

func allow() Decision {
	return Decision{Action: ActionAllow}
}

func redirect(location string) Decision {
	return Decision{Action: ActionRedirect, Location: location}
}

// SurfaceGate classifies request paths and enforces the role → surface
// policy before any handler runs. Decisions are per-request and involve
// no I/O; the session is resolved upstream by the auth middleware.
type SurfaceGate struct {
	signInPath  string
	passthrough []string
	resolve     func(*fiber.Ctx) *domain.Session
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// defaultPassthrough lists path prefixes that bypass the gate entirely:
// static assets, the auth provider's own endpoints, and health checks.
var defaultPassthrough = []string{
	"/static/",
	"/assets/",
	"/favicon.ico",
	"/api/auth/",
	"/health",
}

// NewSurfaceGate constructs the gate. resolve supplies the request's
// session, nil when unauthenticated.
func NewSurfaceGate(resolve func(*fiber.Ctx) *domain.Session, logger *zap.Logger, metrics *observability.Metrics) *SurfaceGate {
	return &SurfaceGate{
		signInPath:  "/auth/signin",
		passthrough: defaultPassthrough,
		resolve:     resolve,
		logger:      logger,
		metrics:     metrics,
	}
}

// Decide evaluates the classification rules in strict precedence order;
// the first matching rule wins.
func (g *SurfaceGate) Decide(path string, session *domain.Session) (Decision, error) {
	// 1. Infrastructure passthrough.
	for _, prefix := range g.passthrough {
		if strings.HasPrefix(path, prefix) {
			return allow(), nil
		}
	}

	segment := leadingSegment(path)

	// 2. Auth-surface pages are public; an authenticated visitor is sent
	// back to the root to avoid re-authentication loops.
	if segment == "auth" {
		if session != nil {
			return redirect("/"), nil
		}
		return allow(), nil
	}

	// 3. Invitation pages are always public: the invite flow handles its
	// own authentication requirement so an anonymous visitor can see the
	// landing page before being routed to sign in.
	if segment == "invite" {
		return allow(), nil
	}

	// 4. Everything else requires a session. The requested path rides
	// along so sign-in can return the user to it.
	if session == nil {
		return redirect(g.signInPath + "?callbackUrl=" + url.QueryEscape(path)), nil
	}

	// 5. Map the leading segment to a protected surface and consult the
	// policy. Unmatched prefixes (shared root, settings) are open to any
	// authenticated session.
	surface, protected := surfaceForSegment(segment)
	if !protected {
		return allow(), nil
	}

	permitted, err := IsAllowed(session.Role, surface)
	if err != nil {
		return Decision{}, err
	}
	if !permitted {
		return redirect("/"), nil
	}

	// 6. Let the request through unmodified.
	return allow(), nil
}

// Handle is the Fiber middleware form of Decide. An UnknownRole error is
// surfaced as a hard failure rather than a silent deny.
func (g *SurfaceGate) Handle(c *fiber.Ctx) error {
	session := g.resolve(c)

	decision, err := g.Decide(c.Path(), session)
	if err != nil {
		g.logger.Error("surface gate policy error",
			zap.String("path", c.Path()),
			zap.Error(err))
		return apperrors.NewUnknownRole(string(session.Role))
	}

	g.metrics.RecordDecision(c.Path(), string(decision.Action))

	if decision.Action == ActionRedirect {
		return c.Redirect(decision.Location, fiber.StatusFound)
	}
	return c.Next()
}

// leadingSegment extracts the first path segment, without slashes.
func leadingSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

func surfaceForSegment(segment string) (domain.Surface, bool) {
	switch segment {
	case "internal":
		return domain.SurfaceInternal, true
	case "admin":
		return domain.SurfaceAdmin, true
	case "partners":
		return domain.SurfacePartners, true
	case "vendors":
		return domain.SurfaceVendors, true
	default:
		return "", false
	}
}
