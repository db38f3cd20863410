package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/flat-service/internal/domain"
	apperrors "github.com/spec-kit/flat-service/pkg/util"
)

// RequireAdmin ensures the authenticated user carries the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return apperrors.NewUnauthenticated("no authentication token provided")
		}
		if user.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}
