package app_test

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/logitrack/app/controllers"
	"github.com/shashiranjanraj/logitrack/app/models"
	"github.com/shashiranjanraj/logitrack/config"
	"github.com/shashiranjanraj/logitrack/pkg/app"
	"github.com/shashiranjanraj/logitrack/pkg/cache"
	"github.com/shashiranjanraj/logitrack/pkg/response"
	"github.com/shashiranjanraj/logitrack/pkg/testkit"
)

const (
	managerEmail    = "manager@logitrack.local"
	managerPassword = "Pass@word1!"
	clerkEmail      = "clerk@logitrack.local"
	clerkPassword   = "Passw0rd!"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "testing",
		AppPort:            "0",
		DBDriver:           "sqlite",
		CacheDriver:        "memory",
		CacheTTL:           cache.DefaultTTL,
		CacheSizeLimit:     1024,
		JWTKey:             "0123456789abcdef0123456789abcdef",
		JWTIssuer:          "LogiTrack",
		TokenTTL:           2 * time.Hour,
		ManagerEmail:       managerEmail,
		ManagerPassword:    managerPassword,
		RateLimitPerMinute: 0,
		MaxBodyBytes:       1 << 20,
	}
}

func newApp(t *testing.T) *app.Application {
	t.Helper()
	a, err := app.Build(testConfig(), testkit.NewDB(t), cache.NewMemory(1024))
	require.NoError(t, err)
	require.NoError(t, a.Initialize(context.Background()))
	return a
}

func login(t *testing.T, h http.Handler, email, password string) string {
	t.Helper()
	rec := testkit.Request(t, h, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return testkit.Decode[controllers.TokenResponse](t, rec).Token
}

func register(t *testing.T, h http.Handler, email, password string) {
	t.Helper()
	rec := testkit.Request(t, h, http.MethodPost, "/api/auth/register", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Registered", testkit.Decode[string](t, rec))
}

func TestScenarios(t *testing.T) {
	a := newApp(t)
	h := a.Handler()

	register(t, h, clerkEmail, clerkPassword)
	tokens := testkit.Tokens{
		"clerk":   login(t, h, clerkEmail, clerkPassword),
		"manager": login(t, h, managerEmail, managerPassword),
	}

	testkit.RunDir(t, h, tokens, "testdata/scenarios")
}

func TestInitialize_SeedsOnce(t *testing.T) {
	a := newApp(t)
	require.NoError(t, a.Initialize(context.Background()))

	var items []models.InventoryItem
	require.NoError(t, a.DB.Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "Pallet Jack", items[0].Name)
	assert.Equal(t, 12, items[0].Quantity)
	assert.Equal(t, "Warehouse A", items[0].Location)

	var users int64
	require.NoError(t, a.DB.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)
}

func TestInventoryCacheHeaders(t *testing.T) {
	a := newApp(t)
	h := a.Handler()
	token := login(t, h, managerEmail, managerPassword)

	rec := testkit.Request(t, h, http.MethodGet, "/api/inventory", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", rec.Header().Get(controllers.HeaderCacheHit))
	assert.NotEmpty(t, rec.Header().Get(controllers.HeaderQueryMS))

	rec = testkit.Request(t, h, http.MethodGet, "/api/inventory", nil, token)
	assert.Equal(t, "true", rec.Header().Get(controllers.HeaderCacheHit))
	assert.Empty(t, rec.Header().Get(controllers.HeaderQueryMS))

	rec = testkit.Request(t, h, http.MethodPost, "/api/inventory", map[string]any{"name": "Box", "quantity": 3, "location": "B2"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/inventory", rec.Header().Get("Location"))
	created := testkit.Decode[models.InventoryItem](t, rec)

	rec = testkit.Request(t, h, http.MethodGet, "/api/inventory", nil, token)
	assert.Equal(t, "false", rec.Header().Get(controllers.HeaderCacheHit))
	assert.Len(t, testkit.Decode[[]models.InventoryItem](t, rec), 2)

	rec = testkit.Request(t, h, http.MethodDelete, "/api/inventory/"+strconv.Itoa(int(created.ItemID)), nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = testkit.Request(t, h, http.MethodGet, "/api/inventory", nil, token)
	assert.Equal(t, "false", rec.Header().Get(controllers.HeaderCacheHit))
	assert.Len(t, testkit.Decode[[]models.InventoryItem](t, rec), 1)
}

func TestOrderLifecycle(t *testing.T) {
	a := newApp(t)
	h := a.Handler()
	token := login(t, h, managerEmail, managerPassword)

	rec := testkit.Request(t, h, http.MethodPost, "/api/orders", map[string]any{
		"customerName": "Acme",
		"items":        []map[string]any{{"name": "Box", "quantity": 5, "location": "A1"}},
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := testkit.Decode[models.Order](t, rec)
	require.NotZero(t, order.OrderID)
	assert.WithinDuration(t, time.Now().UTC(), order.DatePlaced, time.Minute)
	path := "/api/orders/" + strconv.Itoa(int(order.OrderID))
	assert.Equal(t, path, rec.Header().Get("Location"))

	rec = testkit.Request(t, h, http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", rec.Header().Get(controllers.HeaderCacheHit))

	rec = testkit.Request(t, h, http.MethodGet, path, nil, token)
	assert.Equal(t, "true", rec.Header().Get(controllers.HeaderCacheHit))
	assert.Equal(t, "Acme", testkit.Decode[models.Order](t, rec).CustomerName)

	rec = testkit.Request(t, h, http.MethodGet, "/api/orders", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(controllers.HeaderQueryMS))
	summaries := testkit.Decode[[]models.OrderSummary](t, rec)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].ItemCount)

	rec = testkit.Request(t, h, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = testkit.Request(t, h, http.MethodGet, path, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(controllers.HeaderQueryMS))

	rec = testkit.Request(t, h, http.MethodGet, "/api/inventory", nil, token)
	items := testkit.Decode[[]models.InventoryItem](t, rec)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Nil(t, it.OrderID)
	}
}

func TestExpiredToken(t *testing.T) {
	a := newApp(t)
	h := a.Handler()

	past := time.Now().Add(-3 * time.Hour)
	a.Issuer.WithClock(func() time.Time { return past })
	token := login(t, h, managerEmail, managerPassword)
	a.Issuer.WithClock(time.Now)

	rec := testkit.Request(t, h, http.MethodGet, "/api/orders", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, testkit.Decode[response.Problem](t, rec).Status)
}

func TestRoutes(t *testing.T) {
	a := newApp(t)

	var names []string
	for _, r := range a.Routes() {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	assert.ElementsMatch(t, []string{
		"health",
		"auth.register", "auth.login",
		"inventory.index", "inventory.store", "inventory.destroy",
		"orders.index", "orders.show", "orders.store", "orders.destroy",
	}, names)
}

func TestRouteTable_WithoutJWTSettings(t *testing.T) {
	cfg := testConfig()
	cfg.JWTKey = ""
	cfg.JWTIssuer = ""

	infos, err := app.RouteTable(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, infos)
	assert.Empty(t, cfg.JWTKey)
	assert.Empty(t, cfg.JWTIssuer)
}

func TestOrderShow_InternalErrorOmitsQueryTime(t *testing.T) {
	a := newApp(t)
	h := a.Handler()
	token := login(t, h, managerEmail, managerPassword)

	sqlDB, err := a.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec := testkit.Request(t, h, http.MethodGet, "/api/orders/1", nil, token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get(controllers.HeaderQueryMS))
}

func TestBuild_RequiresSigningKey(t *testing.T) {
	cfg := testConfig()
	cfg.JWTKey = ""
	_, err := app.Build(cfg, testkit.NewDB(t), cache.NewMemory(0))
	assert.Error(t, err)
}

func TestServeListener_GracefulShutdown(t *testing.T) {
	a := newApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	ln, err := netListen()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- a.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func netListen() (net.Listener, error) { return net.Listen("tcp", "127.0.0.1:0") }
