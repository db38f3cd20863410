package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/flat-service/internal/api/http/handlers"
	"github.com/spec-kit/flat-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Flats         *handlers.FlatHandler
	Gate          *auth.Middleware
	LoginThrottle fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Backend Running")
	})
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	if cfg.LoginThrottle != nil {
		authGroup.Post("/login", cfg.LoginThrottle, cfg.Auth.Login)
	} else {
		authGroup.Post("/login", cfg.Auth.Login)
	}
	authGroup.Get("/me", cfg.Gate.Handle, cfg.Auth.Me)
	authGroup.Post("/updateProfileImage", cfg.Gate.Handle, cfg.Auth.UpdateProfileImage)

	flatGroup := api.Group("/flat")
	flatGroup.Post("/createFlat", cfg.Gate.Handle, cfg.Flats.CreateFlat)
	flatGroup.Get("/getApprove", cfg.Flats.GetApproved)
	flatGroup.Get("/getFlats", cfg.Gate.Handle, cfg.Flats.GetUserFlats)
	flatGroup.Put("/:id/sold", cfg.Gate.Handle, cfg.Flats.MarkSold)
	flatGroup.Put("/:id/approve", cfg.Gate.Handle, auth.RequireAdmin(), cfg.Flats.Approve)
}
