package memory

import (
	"context"
	"sort"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

type cartRepo Store

func (r *cartRepo) Get(_ context.Context, id int64) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.d.carts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *cartRepo) GetByUser(_ context.Context, userID int64) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.d.carts {
		if c.UserID == userID {
			cart := c
			return &cart, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *cartRepo) List(_ context.Context) ([]domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Cart, 0, len(r.d.carts))
	for _, c := range r.d.carts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *cartRepo) ListByUser(_ context.Context, userID int64) ([]domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Cart, 0, 1)
	for _, c := range r.d.carts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *cartRepo) Create(_ context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.d.carts {
		if existing.UserID == c.UserID {
			return repository.ErrConflict
		}
	}
	r.d.nextCartID++
	c.ID = r.d.nextCartID
	stored := *c
	stored.Items = nil
	r.d.carts[c.ID] = stored
	return nil
}

func (r *cartRepo) Update(_ context.Context, c *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.carts[c.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.d.carts {
		if id != c.ID && existing.UserID == c.UserID {
			return repository.ErrConflict
		}
	}
	stored := *c
	stored.Items = nil
	r.d.carts[c.ID] = stored
	return nil
}

func (r *cartRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.carts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.d.carts, id)
	for key := range r.d.cartItems {
		if key.cartID == id {
			delete(r.d.cartItems, key)
		}
	}
	return nil
}

type cartItemRepo Store

func (r *cartItemRepo) Get(_ context.Context, cartID, productID int64) (*domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.d.cartItems[itemKey{cartID, productID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (r *cartItemRepo) ListForCart(_ context.Context, cartID int64) ([]domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CartItem, 0)
	for key, item := range r.d.cartItems {
		if key.cartID == cartID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *cartItemRepo) Create(_ context.Context, item *domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := itemKey{item.CartID, item.ProductID}
	if _, ok := r.d.cartItems[key]; ok {
		return repository.ErrConflict
	}
	r.d.nextItemID++
	item.ID = r.d.nextItemID
	r.d.cartItems[key] = *item
	return nil
}

func (r *cartItemRepo) UpdateQuantity(_ context.Context, cartID, productID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := itemKey{cartID, productID}
	item, ok := r.d.cartItems[key]
	if !ok {
		return repository.ErrNotFound
	}
	item.Quantity = quantity
	r.d.cartItems[key] = item
	return nil
}

func (r *cartItemRepo) Delete(_ context.Context, cartID, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.d.cartItems, itemKey{cartID, productID})
	return nil
}

func (r *cartItemRepo) DeleteForCart(_ context.Context, cartID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.d.cartItems {
		if key.cartID == cartID {
			delete(r.d.cartItems, key)
		}
	}
	return nil
}
