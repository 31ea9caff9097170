package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/dto"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserLookup resolves the account behind a token.
type UserLookup interface {
	GetUser(userID uuid.UUID) (*models.User, error)
}

// AdminRequired lets a request through when one of these holds:
// 1. X-Admin-Token matches the configured admin token
// 2. the token email is listed in ADMIN_EMAILS
// 3. the token carries role=admin and the stored account still has it
func AdminRequired(users UserLookup, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if subtle.ConstantTimeCompare([]byte(c.Get("X-Admin-Token")), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		claims, ok := GetClaims(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		email, _ := claims["email"].(string)
		if contains(adminEmails, strings.ToLower(email)) {
			return c.Next()
		}

		if role, _ := claims["role"].(string); role == models.RoleAdmin {
			if userID, err := GetUserID(c); err == nil {
				if user, err := users.GetUser(userID); err == nil && user.IsAdmin() {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
