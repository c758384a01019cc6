// Package repository defines the persistence contracts the services build
// on. Implementations live in the postgres and memory subpackages.
package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
)

// Sentinel errors shared by all implementations. Services translate these
// into domain errors; repositories never return domain error codes
// themselves.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("repository: not found")

	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("repository: conflict")
)

// Store aggregates the per-entity repositories and provides the atomic
// transaction scope required by multi-step mutations such as cart patches.
type Store interface {
	Products() ProductRepo
	Categories() CategoryRepo
	Ratings() RatingRepo
	Carts() CartRepo
	CartItems() CartItemRepo
	Users() UserRepo
	Addresses() AddressRepo
	Sessions() SessionRepo

	// WithTx runs fn against a Store whose operations share one
	// transaction. fn returning an error rolls everything back.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// ProductRepo persists products and their category memberships.
type ProductRepo interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error

	// SetCategories replaces the product's category set wholesale.
	SetCategories(ctx context.Context, productID int64, categoryIDs []int64) error

	// SetRating writes the derived aggregate columns. Only the rating
	// recompute path may call this.
	SetRating(ctx context.Context, productID int64, rate decimal.Decimal, count int) error
}

// CategoryRepo persists categories.
type CategoryRepo interface {
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// RatingRepo persists per-user product ratings, unique per
// (product, user).
type RatingRepo interface {
	Get(ctx context.Context, productID, userID int64) (*domain.Rating, error)
	ListForProduct(ctx context.Context, productID int64) ([]domain.Rating, error)

	// Upsert inserts the rating or updates the existing row's value.
	Upsert(ctx context.Context, r *domain.Rating) error

	// Delete removes the rating if present; absent rows are a no-op.
	Delete(ctx context.Context, productID, userID int64) error
}

// CartRepo persists carts. Line items live in CartItemRepo.
type CartRepo interface {
	Get(ctx context.Context, id int64) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	List(ctx context.Context) ([]domain.Cart, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Cart, error)
	Create(ctx context.Context, c *domain.Cart) error
	Update(ctx context.Context, c *domain.Cart) error
	Delete(ctx context.Context, id int64) error
}

// CartItemRepo persists cart line items, unique per (cart, product).
type CartItemRepo interface {
	Get(ctx context.Context, cartID, productID int64) (*domain.CartItem, error)
	ListForCart(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, cartID, productID int64, quantity int) error
	Delete(ctx context.Context, cartID, productID int64) error
	DeleteForCart(ctx context.Context, cartID int64) error
}

// UserRepo persists user accounts.
type UserRepo interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error

	// UsernameTaken and EmailTaken report whether another account
	// (excluding excludeID, zero for none) already uses the value.
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}

// AddressRepo persists user addresses.
type AddressRepo interface {
	Get(ctx context.Context, id int64) (*domain.Address, error)
	GetForUser(ctx context.Context, userID, id int64) (*domain.Address, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Address, error)
	Create(ctx context.Context, a *domain.Address) error
	Update(ctx context.Context, a *domain.Address) error
	Delete(ctx context.Context, id int64) error
}

// SessionRepo persists opaque login sessions.
type SessionRepo interface {
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
