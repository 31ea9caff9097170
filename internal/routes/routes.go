package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Services *handlers.ServiceHandler
	Admin    *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers, users middleware.UserLookup) {
	api := app.Group("/api")

	// 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Catalog, public
	api.Get("/services", h.Services.List)
	api.Get("/services/:id", h.Services.Get)
	api.Post("/services", h.Services.Create)

	// Auth, stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), h.Auth.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), h.Auth.Me)

	admin := api.Group("/admin", adminAuth(cfg), middleware.AdminRequired(users, cfg))
	admin.Put("/services/:id", h.Admin.UpdateService)
	admin.Get("/users", h.Admin.ListUsers)
}

// adminAuth skips JWT parsing when the static admin token is presented.
func adminAuth(cfg *config.Config) fiber.Handler {
	jwtMiddleware := middleware.JWTProtected(cfg)
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") != "" {
			return c.Next()
		}
		return jwtMiddleware(c)
	}
}
