package middleware

import (
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS lets the browser client call the API. Credentials are never allowed
// since tokens travel in the Authorization header, not cookies.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  "GET,POST,PUT,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Admin-Token",
		ExposeHeaders: "X-Request-ID",
		MaxAge:        600,
	})
}
