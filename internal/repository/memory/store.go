// Package memory provides an in-process repository.Store used by service
// tests and by deployments that run without Postgres. Transactions are
// simulated with a snapshot: WithTx clones the data set and restores it
// when the callback fails.
package memory

import (
	"context"
	"sync"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

type ratingKey struct {
	productID int64
	userID    int64
}

type itemKey struct {
	cartID    int64
	productID int64
}

// data holds every table. All values are stored by value and copied on
// the way in and out, so callers can never alias store internals.
type data struct {
	products          map[int64]domain.Product
	productCategories map[int64][]int64
	categories        map[int64]domain.Category
	ratings           map[ratingKey]domain.Rating
	carts             map[int64]domain.Cart
	cartItems         map[itemKey]domain.CartItem
	users             map[int64]domain.User
	addresses         map[int64]domain.Address
	sessions          map[string]domain.Session

	nextProductID int64
	nextCategory  int64
	nextRatingID  int64
	nextCartID    int64
	nextItemID    int64
	nextUserID    int64
	nextAddressID int64
	nextSessionID int64
}

func newData() *data {
	return &data{
		products:          make(map[int64]domain.Product),
		productCategories: make(map[int64][]int64),
		categories:        make(map[int64]domain.Category),
		ratings:           make(map[ratingKey]domain.Rating),
		carts:             make(map[int64]domain.Cart),
		cartItems:         make(map[itemKey]domain.CartItem),
		users:             make(map[int64]domain.User),
		addresses:         make(map[int64]domain.Address),
		sessions:          make(map[string]domain.Session),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.productCategories {
		ids := make([]int64, len(v))
		copy(ids, v)
		c.productCategories[k] = ids
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.ratings {
		c.ratings[k] = v
	}
	for k, v := range d.carts {
		c.carts[k] = v
	}
	for k, v := range d.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.addresses {
		c.addresses[k] = v
	}
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	c.nextProductID = d.nextProductID
	c.nextCategory = d.nextCategory
	c.nextRatingID = d.nextRatingID
	c.nextCartID = d.nextCartID
	c.nextItemID = d.nextItemID
	c.nextUserID = d.nextUserID
	c.nextAddressID = d.nextAddressID
	c.nextSessionID = d.nextSessionID
	return c
}

// Store implements repository.Store entirely in memory.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    *data
}

var _ repository.Store = (*Store)(nil)

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{d: newData()}
}

func (s *Store) Products() repository.ProductRepo    { return (*productRepo)(s) }
func (s *Store) Categories() repository.CategoryRepo { return (*categoryRepo)(s) }
func (s *Store) Ratings() repository.RatingRepo      { return (*ratingRepo)(s) }
func (s *Store) Carts() repository.CartRepo          { return (*cartRepo)(s) }
func (s *Store) CartItems() repository.CartItemRepo  { return (*cartItemRepo)(s) }
func (s *Store) Users() repository.UserRepo          { return (*userRepo)(s) }
func (s *Store) Addresses() repository.AddressRepo   { return (*addressRepo)(s) }
func (s *Store) Sessions() repository.SessionRepo    { return (*sessionRepo)(s) }

// WithTx serializes transactions with a dedicated mutex and snapshots the
// data set before running fn. A failing fn restores the snapshot, giving
// the same all-or-nothing behavior the Postgres store gets from pgx.
func (s *Store) WithTx(_ context.Context, fn func(repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}
