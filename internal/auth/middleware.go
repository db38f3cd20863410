package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/flat-service/internal/domain"
	apperrors "github.com/spec-kit/flat-service/pkg/util"
)

const principalKey = "auth_principal"

// TokenHeader is the header carrying the session token. The value may be
// the raw token or a two-part "scheme token" form.
const TokenHeader = "auth-token"

// SessionResolver turns a raw token into a live user. Implemented by the
// auth service so the gate never trusts embedded claims for profile data.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// Middleware guards protected routes, attaching the resolved identity to
// the request context.
type Middleware struct {
	sessions SessionResolver
}

// NewMiddleware constructs the request gate.
func NewMiddleware(sessions SessionResolver) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token := ExtractToken(c.Get(TokenHeader))
	if token == "" {
		return apperrors.NewUnauthenticated("no authentication token provided")
	}

	user, err := m.sessions.ResolveSession(c.Context(), token)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// ExtractToken accepts either a bare token value or a "scheme token" pair
// and returns the token part.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return header
}

// CurrentUser retrieves the authenticated identity set by Handle.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
