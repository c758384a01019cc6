package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/authz"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// CartService manages carts and their line items. Multi-step mutations
// (creation with items, wholesale rebuilds, patches) run inside a single
// transaction so a failing step leaves the cart untouched.
type CartService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewCartService wires the cart service.
func NewCartService(store repository.Store, logger *slog.Logger) *CartService {
	return &CartService{store: store, logger: logger}
}

// List returns carts visible to the acting user. userFilter optionally
// restricts the listing to one user; non-privileged actors only ever see
// their own cart.
func (s *CartService) List(ctx context.Context, userFilter *int64) ([]domain.Cart, error) {
	const op = "cart.list"

	scope, outcome := authz.ListScope(actor(ctx), userFilter)
	if err := authz.Error(outcome, op, "cart"); err != nil {
		return nil, err
	}

	var (
		carts []domain.Cart
		err   error
	)
	switch scope {
	case authz.ScopeAll:
		carts, err = s.store.Carts().List(ctx)
	case authz.ScopeFiltered:
		carts, err = s.store.Carts().ListByUser(ctx, *userFilter)
	default:
		carts, err = s.store.Carts().ListByUser(ctx, actor(ctx).ID)
	}
	if err != nil {
		return nil, translate(err, op, "Cart", 0)
	}

	for i := range carts {
		items, err := s.store.CartItems().ListForCart(ctx, carts[i].ID)
		if err != nil {
			return nil, translate(err, op, "Cart", carts[i].ID)
		}
		carts[i].Items = items
	}
	return carts, nil
}

// Get returns a cart with its items. Non-privileged actors may only read
// their own cart.
func (s *CartService) Get(ctx context.Context, id int64) (*domain.Cart, error) {
	const op = "cart.get"
	return s.authorize(ctx, s.store, op, id)
}

// Create creates a cart for the target user. UserID zero targets the
// acting user. The target must exist, must not be privileged and must not
// already own a cart.
func (s *CartService) Create(ctx context.Context, in domain.CartCreate) (*domain.Cart, error) {
	const op = "cart.create"

	a := actor(ctx)
	userID := in.UserID
	if userID == 0 {
		userID = a.ID
	}

	cart := &domain.Cart{UserID: userID, Date: in.Date}
	if cart.Date.IsZero() {
		cart.Date = time.Now().UTC()
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		target, err := s.cartTarget(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := authz.Error(authz.CanAssignCart(a, target), op, "cart"); err != nil {
			return err
		}
		if err := tx.Carts().Create(ctx, cart); err != nil {
			return translate(err, op, "Cart", 0)
		}
		return s.insertItems(ctx, tx, cart.ID, in.Items, op)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "cart created",
		slog.Int64("cart_id", cart.ID),
		slog.Int64("user_id", userID))
	return s.Get(ctx, cart.ID)
}

// Update replaces the cart's metadata and, when Items is non-nil, rebuilds
// its line items wholesale.
func (s *CartService) Update(ctx context.Context, id int64, in domain.CartUpdate) (*domain.Cart, error) {
	const op = "cart.update"

	a := actor(ctx)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		cart, err := s.authorize(ctx, tx, op, id)
		if err != nil {
			return err
		}
		if in.Date != nil {
			cart.Date = *in.Date
		}
		if in.UserID != nil && *in.UserID != cart.UserID {
			target, err := s.cartTarget(ctx, tx, *in.UserID)
			if err != nil {
				return err
			}
			if err := authz.Error(authz.CanAssignCart(a, target), op, "cart"); err != nil {
				return err
			}
			cart.UserID = *in.UserID
		}
		if err := tx.Carts().Update(ctx, cart); err != nil {
			return translate(err, op, "Cart", id)
		}
		if in.Items != nil {
			if err := tx.CartItems().DeleteForCart(ctx, id); err != nil {
				return translate(err, op, "Cart", id)
			}
			return s.insertItems(ctx, tx, id, in.Items, op)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Patch applies an ordered operation set to the cart in one transaction:
// metadata first, then adds, then updates, then removes. An update for a
// product added in the same batch overwrites the added quantity; a remove
// always wins. Any failing step rolls back the whole patch.
func (s *CartService) Patch(ctx context.Context, id int64, patch domain.CartPatch) (*domain.Cart, error) {
	const op = "cart.patch"

	// An empty patch changes nothing; read back the cart, which still
	// enforces ownership.
	if patch.Empty() {
		return s.Get(ctx, id)
	}

	if err := validateQuantities(op, patch.Add); err != nil {
		return nil, err
	}
	if err := validateQuantities(op, patch.Update); err != nil {
		return nil, err
	}

	a := actor(ctx)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		cart, err := s.authorize(ctx, tx, op, id)
		if err != nil {
			return err
		}

		if patch.Date != nil || patch.UserID != nil {
			if patch.Date != nil {
				cart.Date = *patch.Date
			}
			if patch.UserID != nil && *patch.UserID != cart.UserID {
				target, err := s.cartTarget(ctx, tx, *patch.UserID)
				if err != nil {
					return err
				}
				if err := authz.Error(authz.CanAssignCart(a, target), op, "cart"); err != nil {
					return err
				}
				cart.UserID = *patch.UserID
			}
			if err := tx.Carts().Update(ctx, cart); err != nil {
				return translate(err, op, "Cart", id)
			}
		}

		for _, add := range patch.Add {
			if known, err := s.productExists(ctx, tx, add.ProductID); err != nil {
				return translate(err, op, "Cart", id)
			} else if !known {
				continue
			}
			item, err := tx.CartItems().Get(ctx, id, add.ProductID)
			switch {
			case err == nil:
				err = tx.CartItems().UpdateQuantity(ctx, id, add.ProductID, item.Quantity+add.Quantity)
			case errors.Is(err, repository.ErrNotFound):
				err = tx.CartItems().Create(ctx, &domain.CartItem{
					CartID:    id,
					ProductID: add.ProductID,
					Quantity:  add.Quantity,
				})
			}
			if err != nil {
				return translate(err, op, "Cart", id)
			}
		}

		for _, upd := range patch.Update {
			if known, err := s.productExists(ctx, tx, upd.ProductID); err != nil {
				return translate(err, op, "Cart", id)
			} else if !known {
				continue
			}
			err := tx.CartItems().UpdateQuantity(ctx, id, upd.ProductID, upd.Quantity)
			if errors.Is(err, repository.ErrNotFound) {
				err = tx.CartItems().Create(ctx, &domain.CartItem{
					CartID:    id,
					ProductID: upd.ProductID,
					Quantity:  upd.Quantity,
				})
			}
			if err != nil {
				return translate(err, op, "Cart", id)
			}
		}

		for _, productID := range patch.Remove {
			if err := tx.CartItems().Delete(ctx, id, productID); err != nil {
				return translate(err, op, "Cart", id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the cart and its items.
func (s *CartService) Delete(ctx context.Context, id int64) error {
	const op = "cart.delete"

	return s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := s.authorize(ctx, tx, op, id); err != nil {
			return err
		}
		return translate(tx.Carts().Delete(ctx, id), op, "Cart", id)
	})
}

// authorize loads the cart, checks the acting user may manage it and
// attaches its items.
func (s *CartService) authorize(ctx context.Context, store repository.Store, op string, id int64) (*domain.Cart, error) {
	cart, err := store.Carts().Get(ctx, id)
	if err != nil {
		return nil, translate(err, op, "Cart", id)
	}
	target := authz.Target{ID: cart.UserID, Known: true}
	if err := authz.Error(authz.CanAct(actor(ctx), target), op, "cart"); err != nil {
		return nil, err
	}
	items, err := store.CartItems().ListForCart(ctx, id)
	if err != nil {
		return nil, translate(err, op, "Cart", id)
	}
	cart.Items = items
	return cart, nil
}

// cartTarget gathers the authz facts about a prospective cart owner.
func (s *CartService) cartTarget(ctx context.Context, tx repository.Store, userID int64) (authz.Target, error) {
	target := authz.Target{ID: userID, Known: true}

	user, err := tx.Users().Get(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return target, nil
	case err != nil:
		return target, domain.Internal(err, "cart.target", "failed to load target user")
	}
	target.Exists = true
	target.Privileged = user.Privileged()

	_, err = tx.Carts().GetByUser(ctx, userID)
	switch {
	case err == nil:
		target.HasResource = true
	case !errors.Is(err, repository.ErrNotFound):
		return target, domain.Internal(err, "cart.target", "failed to load target cart")
	}
	return target, nil
}

// insertItems writes the given line items, merging duplicate product
// references and skipping products that do not exist.
func (s *CartService) insertItems(ctx context.Context, tx repository.Store, cartID int64, items []domain.CartItemOp, op string) error {
	if err := validateQuantities(op, items); err != nil {
		return err
	}
	for _, it := range items {
		known, err := s.productExists(ctx, tx, it.ProductID)
		if err != nil {
			return translate(err, op, "Cart", cartID)
		}
		if !known {
			s.logger.WarnContext(ctx, "skipping unknown product in cart payload",
				slog.Int64("cart_id", cartID),
				slog.Int64("product_id", it.ProductID))
			continue
		}
		existing, err := tx.CartItems().Get(ctx, cartID, it.ProductID)
		switch {
		case err == nil:
			err = tx.CartItems().UpdateQuantity(ctx, cartID, it.ProductID, existing.Quantity+it.Quantity)
		case errors.Is(err, repository.ErrNotFound):
			err = tx.CartItems().Create(ctx, &domain.CartItem{
				CartID:    cartID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
			})
		}
		if err != nil {
			return translate(err, op, "Cart", cartID)
		}
	}
	return nil
}

func (s *CartService) productExists(ctx context.Context, tx repository.Store, productID int64) (bool, error) {
	_, err := tx.Products().Get(ctx, productID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func validateQuantities(op string, items []domain.CartItemOp) error {
	for _, it := range items {
		if it.Quantity < 1 {
			return domain.Invalid(op, "Quantity must be at least 1",
				map[string]any{"productId": it.ProductID, "quantity": it.Quantity})
		}
	}
	return nil
}
