package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/config"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/models"
	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "routes-secret"
	testAdminEmail = "admin@e-cuisine.example"
	testAdminToken = "static-admin"
)

type memRepo struct {
	mu   sync.Mutex
	byID map[string]models.Service
}

func (r *memRepo) List(context.Context) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Service, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memRepo) FindByServiceID(_ context.Context, id string) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, services.ErrServiceNotFound
	}
	return &s, nil
}

func (r *memRepo) Create(_ context.Context, svc *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[svc.ServiceID]; ok {
		return services.ErrDuplicateServiceID
	}
	r.byID[svc.ServiceID] = *svc
	return nil
}

func (r *memRepo) Save(_ context.Context, svc *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[svc.ServiceID] = *svc
	return nil
}

func (r *memRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type stubUsers []models.User

func (s stubUsers) ListUsers() ([]models.User, error) { return s, nil }

func (s stubUsers) GetUser(id uuid.UUID) (*models.User, error) {
	for i := range s {
		if s[i].ID == id {
			return &s[i], nil
		}
	}
	return nil, services.ErrUserNotFound
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	catalogService := services.NewCatalogService(&memRepo{byID: make(map[string]models.Service)})
	_, err := catalogService.Seed(context.Background(), catalog.SeedRecords())
	require.NoError(t, err)

	users := stubUsers{
		{ID: uuid.New(), Username: "admin_user", Email: testAdminEmail, Password: "hash", Role: models.RoleAdmin},
		{ID: uuid.New(), Username: "john_doe", Email: "john@example.com", Password: "hash", Role: models.RoleUser},
	}
	cfg := &config.Config{
		JWTSecret:   testSecret,
		AdminEmails: testAdminEmail,
		AdminToken:  testAdminToken,
		CORSOrigins: "*",
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	Setup(app, cfg, Handlers{
		Auth:     handlers.NewAuthHandler(nil),
		Health:   handlers.NewHealthHandler(func() error { return nil }),
		Services: handlers.NewServiceHandler(catalogService),
		Admin:    handlers.NewAdminHandler(catalogService, users),
	}, users)
	return app
}

func adminJWT(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uuid.New().String(),
		"email": testAdminEmail,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, header map[string]string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestServiceRoutes(t *testing.T) {
	app := newTestApp(t)

	code, body := doJSON(t, app, "GET", "/api/services", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	var list []catalog.ServiceRecord
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 5)
	assert.Equal(t, "1", list[0].ID)

	code, body = doJSON(t, app, "GET", "/api/services/3", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	var one catalog.ServiceRecord
	require.NoError(t, json.Unmarshal(body, &one))
	assert.Equal(t, "Delhi", one.City)

	code, body = doJSON(t, app, "GET", "/api/services/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.JSONEq(t, `{"error":true,"message":"Not found"}`, string(body))
}

func TestCreateServiceRoute(t *testing.T) {
	app := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/api/services", `{"servicename":"Test Kitchen","city":"Pune","monthlyprice":"2500","yearlyprice":"27000"}`, nil)
	require.Equal(t, fiber.StatusCreated, code)
	var rec catalog.ServiceRecord
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Mixed", rec.CuisineType)
	assert.Equal(t, 4.0, rec.Rating)
	assert.Equal(t, catalog.Pricing{Monthly: 2500, Yearly: 27000}, rec.Pricing)

	code, _ = doJSON(t, app, "POST", "/api/services", "", nil)
	assert.Equal(t, fiber.StatusCreated, code, "empty body creates a default record")

	code, _ = doJSON(t, app, "POST", "/api/services", `{"servicename":`, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestCreateServiceRouteWithoutContentType(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/services", strings.NewReader(`{"servicename":"Plain Kitchen","monthlyprice":"0","yearlyprice":"1200"}`))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var rec catalog.ServiceRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, "Plain Kitchen", rec.ServiceName)
	assert.Equal(t, catalog.Pricing{Monthly: 0, Yearly: 1200}, rec.Pricing)

	code, body := doJSON(t, app, "POST", "/api/services", `{"servicename":"   "}`, nil)
	require.Equal(t, fiber.StatusCreated, code)
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, catalog.DefaultServiceName, rec.ServiceName)
}

func TestAdminUpdateRoute(t *testing.T) {
	app := newTestApp(t)
	bearer := map[string]string{"Authorization": "Bearer " + adminJWT(t)}

	code, _ := doJSON(t, app, "PUT", "/api/admin/services/1", `{"city":"Goa"}`, nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body := doJSON(t, app, "PUT", "/api/admin/services/1", `{"city":"Goa","id":"hijack","pricing":{"monthly":3999}}`, bearer)
	require.Equal(t, fiber.StatusOK, code)
	var resp catalog.AdminUpdateResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.True(t, resp.Success)
	assert.Equal(t, "1", resp.Service.ID)
	assert.Equal(t, "Goa", resp.Service.City)
	assert.Equal(t, catalog.Pricing{Monthly: 3999}, resp.Service.Pricing)

	code, body = doJSON(t, app, "PUT", "/api/admin/services/missing", `{"city":"Goa"}`, bearer)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.JSONEq(t, `{"success":false,"message":"Service not found"}`, string(body))

	code, _ = doJSON(t, app, "PUT", "/api/admin/services/1", `{"servicename":""}`, bearer)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = doJSON(t, app, "PUT", "/api/admin/services/2", `{"city":"Goa"}`, map[string]string{"X-Admin-Token": testAdminToken})
	assert.Equal(t, fiber.StatusOK, code)
}

func TestAdminUsersRoute(t *testing.T) {
	app := newTestApp(t)

	code, body := doJSON(t, app, "GET", "/api/admin/users", "", map[string]string{"Authorization": "Bearer " + adminJWT(t)})
	require.Equal(t, fiber.StatusOK, code)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "hash")

	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &users))
	require.Len(t, users, 2)
	assert.Equal(t, "admin_user", users[0]["username"])
}

func TestHealthRoute(t *testing.T) {
	app := newTestApp(t)
	code, body := doJSON(t, app, "GET", "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(body), `"status":"OK"`)
}

// TestAccessLayerAgainstRunningServer drives the access layer against the
// real routes, then stops the server and checks it degrades to the cache.
func TestAccessLayerAgainstRunningServer(t *testing.T) {
	app := newTestApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	stopped := false
	t.Cleanup(func() {
		if !stopped {
			_ = app.Shutdown()
		}
	})

	slots, err := catalog.OpenBoltSlots(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = slots.Close() })

	token := adminJWT(t)
	access := catalog.NewAccessLayer(
		catalog.NewHTTPRecordStore("http://"+ln.Addr().String()+"/api"),
		catalog.NewFallbackCache(slots),
		catalog.Options{
			Token:  func() string { return token },
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created, source := access.Create(ctx, catalog.CreatePayload{ServiceName: "Test Kitchen", City: "Pune"})
	require.Equal(t, catalog.SourceRecordStore, source)

	list, source := access.List(ctx)
	require.Equal(t, catalog.SourceRecordStore, source)
	require.Len(t, list, 6)
	assert.Equal(t, created.ID, list[0].ID)

	rec, source := access.GetByID(ctx, "nope")
	assert.Nil(t, rec)
	assert.Equal(t, catalog.SourceRecordStore, source)

	res := access.Update(ctx, created.ID, catalog.Patch{"rating": []byte(`4.9`)})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, catalog.SourceRecordStore, res.Source)
	assert.Equal(t, 4.9, res.Service.Rating)

	res = access.Update(ctx, "missing", catalog.Patch{"rating": []byte(`4.9`)})
	assert.False(t, res.Success)
	assert.Equal(t, "Service not found", res.Message)

	require.NoError(t, app.Shutdown())
	stopped = true

	list, source = access.List(ctx)
	assert.Equal(t, catalog.SourceFallbackCache, source)
	assert.Len(t, list, 5)

	local, source := access.Create(ctx, catalog.CreatePayload{ServiceName: "Offline Kitchen"})
	assert.Equal(t, catalog.SourceFallbackCache, source)
	list, _ = access.List(ctx)
	require.Len(t, list, 6)
	assert.Equal(t, local.ID, list[0].ID)

	adminRes := access.AdminUpdate(ctx, token, "1", catalog.Patch{"city": []byte(`"Goa"`)})
	assert.False(t, adminRes.Success)
	assert.Equal(t, catalog.OutcomeUnreachable, adminRes.Kind)
}
