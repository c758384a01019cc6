package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/cache"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/handler"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/middleware"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository/memory"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/router"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/routes"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

// api bundles a full in-memory server with direct store access for
// seeding.
type api struct {
	server *httptest.Server
	store  *memory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	backend := cache.NewMemoryCache()

	products := service.NewProductService(store,
		cache.NewVersioned(backend, "products:list"), true, logger)
	accounts := service.NewAccountService(store, time.Hour, logger)
	ratings := service.NewRatingService(store, products, logger)

	r := router.New(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Authenticate(accounts),
	)
	routes.Register(r, routes.Deps{
		Products:   handler.NewProductHandler(products, logger),
		Ratings:    handler.NewRatingHandler(ratings, logger),
		Categories: handler.NewCategoryHandler(service.NewCategoryService(store, products, logger), logger),
		Carts:      handler.NewCartHandler(service.NewCartService(store, logger), logger),
		Users:      handler.NewUserHandler(service.NewUserService(store, logger), logger),
		Auth:       handler.NewAuthHandler(accounts, logger),
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return &api{server: server, store: store}
}

// register creates an account through the API and returns its session
// token.
func (a *api) register(t *testing.T, username, password string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/users", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	return a.login(t, username, password)
}

func (a *api) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (a *api) seedProduct(t *testing.T, title, price string) *domain.Product {
	t.Helper()
	p := &domain.Product{Title: title, Price: decimal.RequireFromString(price)}
	require.NoError(t, a.store.Products().Create(context.Background(), p))
	return p
}

func (a *api) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.server.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type errorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func TestAPI_CartLifecycle(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "correct horse battery staple")
	p1 := a.seedProduct(t, "backpack", "109.95")
	p2 := a.seedProduct(t, "shirt", "22.30")

	resp := a.do(t, http.MethodPost, "/carts", token, map[string]any{
		"products": []map[string]any{
			{"productId": p1.ID, "quantity": 2},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cart := decodeBody[domain.Cart](t, resp)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	resp = a.do(t, http.MethodPatch, "/carts/1", token, map[string]any{
		"add":    []map[string]any{{"productId": p1.ID, "quantity": 1}},
		"update": []map[string]any{{"productId": p2.ID, "quantity": 3}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cart = decodeBody[domain.Cart](t, resp)
	require.Len(t, cart.Items, 2)

	quantities := map[int64]int{}
	for _, it := range cart.Items {
		quantities[it.ProductID] = it.Quantity
	}
	assert.Equal(t, 3, quantities[p1.ID])
	assert.Equal(t, 3, quantities[p2.ID])

	resp = a.do(t, http.MethodDelete, "/carts/1", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_CartStatusCodes(t *testing.T) {
	a := newAPI(t)
	alice := a.register(t, "alice", "correct horse battery staple")
	bob := a.register(t, "bob", "correct horse battery staple")

	resp := a.do(t, http.MethodPost, "/carts", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, domain.EUNAUTHORIZED, body.Error)

	resp = a.do(t, http.MethodPost, "/carts", alice, map[string]any{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// A second cart for the same user is a conflict.
	resp = a.do(t, http.MethodPost, "/carts", alice, map[string]any{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Other users cannot read it.
	resp = a.do(t, http.MethodGet, "/carts/1", bob, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/carts/999", alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, "/carts/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_PatchInvalidQuantity(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "correct horse battery staple")
	p := a.seedProduct(t, "backpack", "109.95")

	resp := a.do(t, http.MethodPost, "/carts", token, map[string]any{
		"products": []map[string]any{{"productId": p.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPatch, "/carts/1", token, map[string]any{
		"add": []map[string]any{{"productId": p.ID, "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody[errorResponse](t, resp)
	assert.Equal(t, domain.EINVALID, body.Error)
	assert.EqualValues(t, 0, body.Details["quantity"])
}

func TestAPI_RatingRoundTrip(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "correct horse battery staple")
	p := a.seedProduct(t, "backpack", "109.95")

	resp := a.do(t, http.MethodPut, "/products/1/rating", token, map[string]any{
		"value": 4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decodeBody[domain.RatingSummary](t, resp)
	assert.Equal(t, 1, summary.Count)

	// Ratings show up on the product itself.
	resp = a.do(t, http.MethodGet, "/products/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[domain.Product](t, resp)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, 1, got.Count)

	resp = a.do(t, http.MethodPut, "/products/1/rating", token, map[string]any{
		"value": 9,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPut, "/products/1/rating", "", map[string]any{
		"value": 4,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_ProductCreateRequiresAdmin(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "correct horse battery staple")

	resp := a.do(t, http.MethodPost, "/products", token, map[string]any{
		"title": "backpack",
		"price": "109.95",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_MalformedBody(t *testing.T) {
	a := newAPI(t)
	token := a.register(t, "alice", "correct horse battery staple")

	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/carts",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Healthz(t *testing.T) {
	a := newAPI(t)
	resp := a.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
