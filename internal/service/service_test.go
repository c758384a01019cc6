package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/cache"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository/memory"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture bundles a memory store with the services under test.
type fixture struct {
	store    *memory.Store
	backend  *cache.MemoryCache
	products *service.ProductService
	ratings  *service.RatingService
	carts    *service.CartService
	users    *service.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	backend := cache.NewMemoryCache()
	logger := testLogger()

	products := service.NewProductService(store,
		cache.NewVersioned(backend, "products:list"), true, logger)

	return &fixture{
		store:    store,
		backend:  backend,
		products: products,
		ratings:  service.NewRatingService(store, products, logger),
		carts:    service.NewCartService(store, logger),
		users:    service.NewUserService(store, logger),
	}
}

func (f *fixture) seedUser(t *testing.T, username string, staff, superuser bool) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Staff:        staff,
		Superuser:    superuser,
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) seedProduct(t *testing.T, title string, price string) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Title: title,
		Price: decimal.RequireFromString(price),
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name}
	require.NoError(t, f.store.Categories().Create(context.Background(), c))
	return c
}

// as returns a context authenticated as the given user.
func as(u *domain.User) context.Context {
	return domain.NewContextWithIdentity(context.Background(), &domain.Identity{
		ID:        u.ID,
		Username:  u.Username,
		Staff:     u.Staff,
		Superuser: u.Superuser,
	})
}

func anon() context.Context {
	return context.Background()
}
