package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/fireplay-backend/internal/config"
	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/checkout"
	"github.com/your-org/fireplay-backend/internal/domain/collection"
	"github.com/your-org/fireplay-backend/internal/domain/contact"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/session"
	"github.com/your-org/fireplay-backend/internal/domain/user"
	"github.com/your-org/fireplay-backend/internal/infrastructure/database/memory"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/middleware"
	"github.com/your-org/fireplay-backend/internal/interfaces/http/routes"
	"github.com/your-org/fireplay-backend/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	portal = catalog.Item{ID: 4200, Name: "Portal 2", Slug: "portal-2", Rating: 4.6, Genres: []catalog.GenreRef{{Name: "Puzzle"}}}
	hades  = catalog.Item{ID: 274755, Name: "Hades", Slug: "hades-2", Rating: 4.4}
)

type staticReceipts struct{}

func (staticReceipts) RenderReceipt(o *order.Order, _ string) ([]byte, error) {
	return []byte("%PDF-" + o.ID), nil
}

type testApp struct {
	handler  http.Handler
	store    *memory.Store
	idp      *fakeProvider
	sessions *middleware.Sessions
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.Discard()

	store := memory.NewStore()
	idp := newFakeProvider()
	sessions := session.NewRegistry(func(s *session.Session) *collection.Controller {
		return collection.NewController(s, store, store, cart.StablePricing{}, log)
	})

	cfg := &config.Config{
		App:    config.AppConfig{Name: "Fireplay", Environment: "test"},
		Server: config.ServerConfig{Port: "0", MaxBodyBytes: 1 << 20},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowedHeaders: []string{"Content-Type", "Authorization"},
		},
	}

	deps := routes.Dependencies{
		Identity: idp,
		Sessions: sessions,
		Catalog:  newFakeCatalog(portal, hades),
		Users:    user.NewService(store, idp, log),
		Orders:   order.NewService(store, staticReceipts{}, log),
		Checkout: checkout.NewService(store, store, log),
		Contact:  contact.NewService(nil, log),
	}
	checks := map[string]HealthCheck{"store": store.Ping}

	srv := NewServer(cfg, deps, nil, checks, log)
	return &testApp{handler: srv.Handler(), store: store, idp: idp, sessions: sessions}
}

type envelope struct {
	Message        string          `json:"message"`
	Error          string          `json:"error"`
	SignInRequired bool            `json:"sign_in_required"`
	Data           json.RawMessage `json:"data"`
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "application/pdf" && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// register creates an account and returns its token
func (a *testApp) register(t *testing.T, email, password string) string {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/auth/register", "", user.RegisterRequest{
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
		DisplayName:     "Ana",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp user.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w, _ = app.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesAnswerSignInRequired(t *testing.T) {
	app := newTestApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/favorites"},
		{http.MethodPost, "/api/v1/cart/toggle"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/profile"},
	} {
		w, env := app.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.True(t, env.SignInRequired, tc.path)

		w, env = app.do(t, tc.method, tc.path, "bogus", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.True(t, env.SignInRequired, tc.path)
	}
}

func TestLoginFailures(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "ana@example.com", "secret1")

	w, _ := app.do(t, http.MethodPost, "/api/v1/auth/login", "", user.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/v1/auth/register", "", user.RegisterRequest{
		Email: "ana@example.com", Password: "secret1", ConfirmPassword: "secret1", DisplayName: "Ana",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/v1/auth/register", "", user.RegisterRequest{
		Email: "bo@example.com", Password: "secret1", ConfirmPassword: "secret2", DisplayName: "Bo",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoritesToggle(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "ana@example.com", "secret1")

	w, env := app.do(t, http.MethodPost, "/api/v1/favorites/toggle", token, portal)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res collection.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Member)

	w, env = app.do(t, http.MethodGet, "/api/v1/favorites/4200", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Member)

	w, env = app.do(t, http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var favs []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, "Portal 2", favs[0]["name"])

	// second toggle removes it again
	w, env = app.do(t, http.MethodPost, "/api/v1/favorites/toggle", token, portal)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Member)

	// favorites and cart are independent
	w, env = app.do(t, http.MethodGet, "/api/v1/cart/4200", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Member)

	w, _ = app.do(t, http.MethodPost, "/api/v1/favorites/toggle", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = app.do(t, http.MethodPost, "/api/v1/favorites/toggle", token, gin.H{"slug": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/v1/favorites/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartCheckoutAndOrders(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "ana@example.com", "secret1")

	// slug-only toggle resolves the snapshot through the catalog
	for _, item := range []catalog.Item{portal, hades} {
		w, _ := app.do(t, http.MethodPost, "/api/v1/cart/toggle", token, gin.H{"slug": item.Slug})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	want := cart.StablePricing{}.Price(portal) + cart.StablePricing{}.Price(hades)

	w, env := app.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cartView struct {
		Items []cart.Entry `json:"items"`
		Total int          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cartView))
	assert.Len(t, cartView.Items, 2)
	assert.Equal(t, want, cartView.Total)

	// the listing shows cart membership to the signed-in user only
	w, env = app.do(t, http.MethodGet, "/api/v1/catalog/games", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Games []struct {
			ID     int  `json:"id"`
			InCart bool `json:"in_cart"`
		} `json:"games"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing.Games, 2)
	assert.True(t, listing.Games[0].InCart)
	assert.True(t, listing.Games[1].InCart)

	_, env = app.do(t, http.MethodGet, "/api/v1/catalog/games", "", nil)
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	assert.False(t, listing.Games[0].InCart)

	w, env = app.do(t, http.MethodPost, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result checkout.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.True(t, result.Placed)
	assert.Equal(t, want, result.Order.Total)
	assert.Len(t, result.Order.Items, 2)

	// the cart is empty in the store and in the session
	_, env = app.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.NoError(t, json.Unmarshal(env.Data, &cartView))
	assert.Empty(t, cartView.Items)
	assert.Zero(t, cartView.Total)
	w, env = app.do(t, http.MethodGet, "/api/v1/cart/4200", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res collection.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Member)

	// checking out an empty cart is a no-op
	w, env = app.do(t, http.MethodPost, "/api/v1/checkout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.False(t, result.Placed)

	w, env = app.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []order.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 1)

	w, _ = app.do(t, http.MethodGet, "/api/v1/orders/"+orders[0].ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/v1/orders/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.do(t, http.MethodGet, "/api/v1/orders/"+orders[0].ID+"/receipt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-"+orders[0].ID, w.Body.String())
}

func TestOrdersAreScopedToTheUser(t *testing.T) {
	app := newTestApp(t)
	ana := app.register(t, "ana@example.com", "secret1")
	bo := app.register(t, "bo@example.com", "secret2")

	app.do(t, http.MethodPost, "/api/v1/cart/toggle", ana, portal)
	w, env := app.do(t, http.MethodPost, "/api/v1/checkout", ana, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var result checkout.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))

	w, _ = app.do(t, http.MethodGet, "/api/v1/orders/"+result.Order.ID, bo, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileUpdate(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "ana@example.com", "secret1")

	w, env := app.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "ana@example.com", profile["email"])

	w, _ = app.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"email": "ana.new@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"email": "ana.new@example.com", "current_password": "nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"gender": "Robot"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = app.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{
		"email":            "ana.new@example.com",
		"current_password": "secret1",
		"birthday":         "1990-04-12",
		"gender":           "Female",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "ana.new@example.com", profile["email"])
	assert.Equal(t, "Female", profile["gender"])
	assert.NotNil(t, profile["age"])

	sess, _, ok := app.sessions.Lookup("uid-1")
	require.True(t, ok)
	current, _ := sess.Current()
	assert.Equal(t, "ana.new@example.com", current.Email)
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "ana@example.com", "secret1")
	assert.Equal(t, 1, app.sessions.Len())

	w, _ := app.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, app.sessions.Len())

	w, env := app.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, env.SignInRequired)
}

func TestCatalogRoutes(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(t, http.MethodGet, "/api/v1/catalog/games/portal-2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Portal 2", detail["name"])
	assert.Equal(t, false, detail["in_favorites"])

	w, _ = app.do(t, http.MethodGet, "/api/v1/catalog/games/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/v1/catalog/games/portal-2/reviews", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/v1/catalog/genres", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(t, http.MethodGet, "/api/v1/catalog/games?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContact(t *testing.T) {
	app := newTestApp(t)

	w, _ := app.do(t, http.MethodPost, "/api/v1/contact", "", contact.Message{
		Name: "Bo", Email: "bo@example.com", Subject: "Hi", Message: "Hello",
	})
	assert.Equal(t, http.StatusAccepted, w.Code)

	w, _ = app.do(t, http.MethodPost, "/api/v1/contact", "", contact.Message{Name: "Bo", Email: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type failingStore struct{}

func (failingStore) ping(context.Context) error { return errors.New("down") }

func TestHealthReportsFailingDependency(t *testing.T) {
	log := logger.Discard()
	sessions := session.NewRegistry(func(*session.Session) *collection.Controller { return nil })
	cfg := &config.Config{App: config.AppConfig{Name: "Fireplay"}}

	srv := NewServer(cfg, routes.Dependencies{Sessions: sessions}, nil, map[string]HealthCheck{"store": failingStore{}.ping}, log)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
