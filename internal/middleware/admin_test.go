package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type stubUsers map[uuid.UUID]*models.User

func (s stubUsers) GetUser(id uuid.UUID) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAdminApp(cfg *config.Config, users UserLookup) *fiber.App {
	app := fiber.New()
	app.Get("/admin", JWTProtected(cfg), AdminRequired(users, cfg), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/static", AdminRequired(users, cfg), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAdminRequired(t *testing.T) {
	adminID, userID, demotedID := uuid.New(), uuid.New(), uuid.New()
	users := stubUsers{
		adminID:   {ID: adminID, Role: models.RoleAdmin},
		userID:    {ID: userID, Role: models.RoleUser},
		demotedID: {ID: demotedID, Role: models.RoleUser},
	}
	cfg := &config.Config{
		JWTSecret:   testSecret,
		AdminEmails: " Boss@Example.com ,ops@example.com",
		AdminToken:  "static-admin",
	}
	app := newAdminApp(cfg, users)

	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   int
	}{
		{
			name: "no token",
			path: "/admin",
			want: fiber.StatusUnauthorized,
		},
		{
			name:   "bad signature",
			path:   "/admin",
			header: map[string]string{"Authorization": "Bearer " + signToken(t, "other", jwt.MapClaims{"sub": adminID.String()})},
			want:   fiber.StatusUnauthorized,
		},
		{
			name:   "admin role confirmed by account",
			path:   "/admin",
			header: map[string]string{"Authorization": "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": adminID.String(), "role": "admin"})},
			want:   fiber.StatusOK,
		},
		{
			name:   "stale admin claim",
			path:   "/admin",
			header: map[string]string{"Authorization": "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": demotedID.String(), "role": "admin"})},
			want:   fiber.StatusForbidden,
		},
		{
			name:   "regular user",
			path:   "/admin",
			header: map[string]string{"Authorization": "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": userID.String(), "role": "user"})},
			want:   fiber.StatusForbidden,
		},
		{
			name:   "configured admin email",
			path:   "/admin",
			header: map[string]string{"Authorization": "Bearer " + signToken(t, testSecret, jwt.MapClaims{"sub": userID.String(), "email": "boss@example.com"})},
			want:   fiber.StatusOK,
		},
		{
			name:   "static admin token",
			path:   "/static",
			header: map[string]string{"X-Admin-Token": "static-admin"},
			want:   fiber.StatusOK,
		},
		{
			name:   "wrong static admin token",
			path:   "/static",
			header: map[string]string{"X-Admin-Token": "guess"},
			want:   fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestGetUserID(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	id := uuid.New()

	app := fiber.New()
	app.Get("/me", JWTProtected(cfg), func(c *fiber.Ctx) error {
		got, err := GetUserID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.SendString(got.String())
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"sub": id.String()}))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, jwt.MapClaims{"email": "x@example.com"}))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestParseCSV(t *testing.T) {
	assert.Nil(t, parseCSV(""))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, parseCSV(" A@x.com, ,b@x.com "))
}
