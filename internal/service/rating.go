package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/authz"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// RatingService manages per-user product ratings and keeps the product's
// derived aggregate (mean and count) consistent with the rating rows. The
// recompute runs in the same transaction as the rating write.
//
// Operations accept an optional target user id: privileged actors may
// read or write another user's rating, everyone else only their own.
type RatingService struct {
	store    repository.Store
	products *ProductService
	logger   *slog.Logger
}

// NewRatingService wires the rating service. products is used to
// invalidate cached listings after aggregates change.
func NewRatingService(store repository.Store, products *ProductService, logger *slog.Logger) *RatingService {
	return &RatingService{store: store, products: products, logger: logger}
}

// Set records a rating for a product, inserting or replacing the target
// user's previous score, and recomputes the product aggregate. userID nil
// targets the acting user.
func (s *RatingService) Set(ctx context.Context, productID int64, value int, userID *int64) (*domain.RatingSummary, error) {
	const op = "rating.set"

	target, err := s.resolveTarget(ctx, op, userID)
	if err != nil {
		return nil, err
	}
	if value < 0 || value > 5 {
		return nil, domain.Invalid(op, "Rating must be between 0 and 5",
			map[string]any{"value": value})
	}

	var summary *domain.RatingSummary
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Products().Get(ctx, productID); err != nil {
			return translate(err, op, "Product", productID)
		}
		if userID != nil {
			if _, err := tx.Users().Get(ctx, target); err != nil {
				return translate(err, op, "User", target)
			}
		}
		rating := &domain.Rating{ProductID: productID, UserID: target, Value: value}
		if err := tx.Ratings().Upsert(ctx, rating); err != nil {
			return translate(err, op, "Product", productID)
		}
		var err error
		summary, err = recompute(ctx, tx, productID)
		return translate(err, op, "Product", productID)
	})
	if err != nil {
		return nil, err
	}

	summary.UserRating = &value
	s.products.InvalidateListings(ctx)
	s.logger.InfoContext(ctx, "rating recorded",
		slog.Int64("product_id", productID),
		slog.Int64("user_id", target),
		slog.Int("value", value))
	return summary, nil
}

// Delete removes the target user's rating for a product if present and
// recomputes the aggregate. Deleting an absent rating is not an error.
// userID nil targets the acting user.
func (s *RatingService) Delete(ctx context.Context, productID int64, userID *int64) (*domain.RatingSummary, error) {
	const op = "rating.delete"

	target, err := s.resolveTarget(ctx, op, userID)
	if err != nil {
		return nil, err
	}

	var summary *domain.RatingSummary
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Products().Get(ctx, productID); err != nil {
			return translate(err, op, "Product", productID)
		}
		if err := tx.Ratings().Delete(ctx, productID, target); err != nil {
			return translate(err, op, "Product", productID)
		}
		var err error
		summary, err = recompute(ctx, tx, productID)
		return translate(err, op, "Product", productID)
	})
	if err != nil {
		return nil, err
	}

	s.products.InvalidateListings(ctx)
	return summary, nil
}

// Summary returns the product's aggregate rating plus a single user's
// score. userID nil reports the acting user's own score when a request
// identity is present; anonymous callers get the aggregate only.
func (s *RatingService) Summary(ctx context.Context, productID int64, userID *int64) (*domain.RatingSummary, error) {
	const op = "rating.summary"

	var target int64
	if userID != nil {
		t, err := s.resolveTarget(ctx, op, userID)
		if err != nil {
			return nil, err
		}
		target = t
	} else if identity := domain.IdentityFromContext(ctx); identity != nil {
		target = identity.ID
	}

	p, err := s.store.Products().Get(ctx, productID)
	if err != nil {
		return nil, translate(err, op, "Product", productID)
	}
	summary := &domain.RatingSummary{
		ProductID: p.ID,
		Rate:      p.Rate,
		Count:     p.Count,
	}

	if target != 0 {
		rating, err := s.store.Ratings().Get(ctx, productID, target)
		switch {
		case err == nil:
			summary.UserRating = &rating.Value
		case errors.Is(err, repository.ErrNotFound):
			// No personal rating; the summary stays aggregate-only.
		default:
			return nil, translate(err, op, "Product", productID)
		}
	}
	return summary, nil
}

// resolveTarget authenticates the actor and resolves the user whose
// rating is being read or written. Targeting another user requires a
// privileged actor.
func (s *RatingService) resolveTarget(ctx context.Context, op string, userID *int64) (int64, error) {
	a, err := requireAuth(ctx, op)
	if err != nil {
		return 0, err
	}
	if userID == nil {
		return a.ID, nil
	}
	target := authz.Target{ID: *userID, Known: true}
	if err := authz.Error(authz.CanAct(a, target), op, "rating"); err != nil {
		return 0, err
	}
	return *userID, nil
}

// recompute recalculates the product's mean and count from its rating rows
// and writes them back. Runs inside the caller's transaction.
func recompute(ctx context.Context, tx repository.Store, productID int64) (*domain.RatingSummary, error) {
	ratings, err := tx.Ratings().ListForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	rate := roundedMean(ratings)
	if err := tx.Products().SetRating(ctx, productID, rate, len(ratings)); err != nil {
		return nil, err
	}
	return &domain.RatingSummary{
		ProductID: productID,
		Rate:      rate,
		Count:     len(ratings),
	}, nil
}
