package catalog

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts app on a loopback port and returns its /api base URL.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String() + "/api/"
}

func statusApp(status int, body fiber.Map) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.All("/api/*", func(c *fiber.Ctx) error {
		return c.Status(status).JSON(body)
	})
	return app
}

func TestHTTPRecordStoreClassifiesStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   OutcomeKind
	}{
		{fiber.StatusNotFound, OutcomeNotFound},
		{fiber.StatusUnauthorized, OutcomeDenied},
		{fiber.StatusForbidden, OutcomeDenied},
		{fiber.StatusBadRequest, OutcomeRejected},
		{fiber.StatusConflict, OutcomeRejected},
		{fiber.StatusUnprocessableEntity, OutcomeRejected},
		{fiber.StatusInternalServerError, OutcomeUnreachable},
		{fiber.StatusBadGateway, OutcomeUnreachable},
	}
	for _, tt := range tests {
		t.Run(utils.StatusMessage(tt.status), func(t *testing.T) {
			store := NewHTTPRecordStore(serve(t, statusApp(tt.status, fiber.Map{"error": true, "message": "nope"})))
			out := store.Get(context.Background(), "1")
			assert.Equal(t, tt.want, out.Kind)
			if tt.want != OutcomeUnreachable {
				assert.Equal(t, "nope", out.Reason)
			}
		})
	}
}

func TestHTTPRecordStoreDecodesRecords(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	var gotAuth string
	var gotPatch Patch
	app.Get("/api/services", func(c *fiber.Ctx) error {
		return c.JSON(SeedRecords()[:2])
	})
	app.Get("/api/services/:id", func(c *fiber.Ctx) error {
		// menu sections omitted on purpose
		return c.JSON(fiber.Map{"id": c.Params("id"), "servicename": "Sparse"})
	})
	app.Put("/api/admin/services/:id", func(c *fiber.Ctx) error {
		gotAuth = c.Get(fiber.HeaderAuthorization)
		if err := c.BodyParser(&gotPatch); err != nil {
			return err
		}
		rec := SeedRecords()[0]
		return c.JSON(AdminUpdateResponse{Success: true, Service: &rec})
	})
	store := NewHTTPRecordStore(serve(t, app))
	ctx := context.Background()

	list := store.List(ctx)
	require.Equal(t, OutcomeOK, list.Kind)
	assert.Equal(t, SeedRecords()[:2], list.Value)

	one := store.Get(ctx, "abc")
	require.Equal(t, OutcomeOK, one.Kind)
	assert.Equal(t, "abc", one.Value.ID)
	assert.Equal(t, []string{}, one.Value.Menu.Lunch)

	upd := store.AdminUpdate(ctx, "tok", "1", Patch{"city": []byte(`"Goa"`)})
	require.Equal(t, OutcomeOK, upd.Kind)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.JSONEq(t, `"Goa"`, string(gotPatch["city"]))
}

func TestHTTPRecordStoreUnsuccessfulUpdateBody(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Put("/api/admin/services/:id", func(c *fiber.Ctx) error {
		return c.JSON(AdminUpdateResponse{Success: false, Message: "nothing changed"})
	})
	store := NewHTTPRecordStore(serve(t, app))

	out := store.AdminUpdate(context.Background(), "tok", "1", Patch{})
	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.Equal(t, "nothing changed", out.Reason)
}

func TestHTTPRecordStoreUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	store := NewHTTPRecordStore("http://" + addr + "/api")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out := store.List(ctx)
	assert.Equal(t, OutcomeUnreachable, out.Kind)
	assert.Error(t, out.Err)

	created := store.Create(ctx, CreatePayload{ServiceName: "x"})
	assert.Equal(t, OutcomeUnreachable, created.Kind)
}

func TestHTTPRecordStoreCancelledContext(t *testing.T) {
	store := NewHTTPRecordStore("http://127.0.0.1:1/api")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := store.Get(ctx, "1")
	assert.Equal(t, OutcomeUnreachable, out.Kind)
	assert.ErrorIs(t, out.Err, context.Canceled)
}
