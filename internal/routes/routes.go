// Package routes wires the API handlers onto the router.
package routes

import (
	"net/http"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/handler"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/router"
)

// Deps contains the handlers the route table needs.
type Deps struct {
	Products   *handler.ProductHandler
	Ratings    *handler.RatingHandler
	Categories *handler.CategoryHandler
	Carts      *handler.CartHandler
	Users      *handler.UserHandler
	Auth       *handler.AuthHandler

	// MetricsHandler serves the Prometheus scrape endpoint.
	MetricsHandler http.Handler
}

// Register registers all API routes.
func Register(r *router.Router, deps Deps) {
	// Catalog
	r.Get("/products", deps.Products.List)
	r.Get("/products/{id}", deps.Products.Get)
	r.Post("/products", deps.Products.Create)
	r.Patch("/products/{id}", deps.Products.Update)
	r.Delete("/products/{id}", deps.Products.Delete)

	// Ratings
	r.Get("/products/{id}/rating", deps.Ratings.Get)
	r.Put("/products/{id}/rating", deps.Ratings.Set)
	r.Delete("/products/{id}/rating", deps.Ratings.Delete)

	// Categories
	r.Get("/categories", deps.Categories.List)
	r.Get("/categories/{id}", deps.Categories.Get)
	r.Post("/categories", deps.Categories.Create)
	r.Put("/categories/{id}", deps.Categories.Update)
	r.Delete("/categories/{id}", deps.Categories.Delete)

	// Carts
	r.Get("/carts", deps.Carts.List)
	r.Get("/carts/{id}", deps.Carts.Get)
	r.Post("/carts", deps.Carts.Create)
	r.Put("/carts/{id}", deps.Carts.Update)
	r.Patch("/carts/{id}", deps.Carts.Patch)
	r.Delete("/carts/{id}", deps.Carts.Delete)

	// Users and addresses
	r.Get("/users", deps.Users.List)
	r.Get("/users/{id}", deps.Users.Get)
	r.Post("/users", deps.Users.Create)
	r.Patch("/users/{id}", deps.Users.Update)
	r.Delete("/users/{id}", deps.Users.Delete)
	r.Get("/users/{id}/addresses", deps.Users.ListAddresses)
	r.Get("/users/{id}/addresses/{addressId}", deps.Users.GetAddress)
	r.Post("/users/{id}/addresses", deps.Users.CreateAddress)
	r.Patch("/users/{id}/addresses/{addressId}", deps.Users.UpdateAddress)
	r.Delete("/users/{id}/addresses/{addressId}", deps.Users.DeleteAddress)

	// Auth
	r.Post("/auth/login", deps.Auth.Login)
	r.Post("/auth/logout", deps.Auth.Logout)

	// Observability
	if deps.MetricsHandler != nil {
		r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
