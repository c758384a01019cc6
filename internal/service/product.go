package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/cache"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// ProductService manages the catalog. Listings are served through a
// version-tagged read-through cache; every catalog mutation bumps the
// dataset version instead of evicting individual entries.
type ProductService struct {
	store        repository.Store
	listings     *cache.Versioned
	cacheEnabled bool
	logger       *slog.Logger
}

// NewProductService wires the catalog service. listings is the versioned
// cache view for product listings; cacheEnabled false bypasses it entirely.
func NewProductService(store repository.Store, listings *cache.Versioned, cacheEnabled bool, logger *slog.Logger) *ProductService {
	return &ProductService{
		store:        store,
		listings:     listings,
		cacheEnabled: cacheEnabled,
		logger:       logger,
	}
}

// List returns the catalog, optionally restricted to a category name.
// Results come from the cache when enabled and warm.
func (s *ProductService) List(ctx context.Context, category string) ([]domain.Product, error) {
	const op = "product.list"

	load := func(ctx context.Context) ([]domain.Product, error) {
		if category == "" {
			return s.store.Products().List(ctx)
		}
		return s.store.Products().ListByCategory(ctx, category)
	}

	if !s.cacheEnabled {
		products, err := load(ctx)
		return products, translate(err, op, "product", 0)
	}

	products, hit, err := cache.ReadThrough(ctx, s.listings, category, load)
	if err != nil {
		return nil, translate(err, op, "product", 0)
	}
	s.logger.DebugContext(ctx, "product listing served",
		slog.String("category", category),
		slog.Bool("cache_hit", hit))
	return products, nil
}

// Get returns a single product with its categories.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.store.Products().Get(ctx, id)
	return p, translate(err, "product.get", "Product", id)
}

// Create adds a product to the catalog and invalidates listings.
func (s *ProductService) Create(ctx context.Context, in domain.ProductCreate) (*domain.Product, error) {
	const op = "product.create"

	if err := s.requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, domain.Invalid(op, "Title is required", nil)
	}
	if in.Price.IsNegative() {
		return nil, domain.Invalid(op, "Price must not be negative",
			map[string]any{"price": in.Price.String()})
	}

	p := &domain.Product{
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Image:       in.Image,
	}
	if in.Rate != nil {
		p.Rate = *in.Rate
	}
	if in.Count != nil {
		p.Count = *in.Count
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Products().Create(ctx, p); err != nil {
			return err
		}
		if len(in.CategoryIDs) > 0 {
			return tx.Products().SetCategories(ctx, p.ID, in.CategoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, op, "Product", 0)
	}

	s.invalidateListings(ctx)
	return s.Get(ctx, p.ID)
}

// Update applies a partial update and invalidates listings. A non-nil
// CategoryIDs replaces the category set wholesale.
func (s *ProductService) Update(ctx context.Context, id int64, in domain.ProductUpdate) (*domain.Product, error) {
	const op = "product.update"

	if err := s.requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, domain.Invalid(op, "Price must not be negative",
			map[string]any{"price": in.Price.String()})
	}

	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		p, err := tx.Products().Get(ctx, id)
		if err != nil {
			return err
		}
		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Image != nil {
			p.Image = *in.Image
		}
		if err := tx.Products().Update(ctx, p); err != nil {
			return err
		}
		if in.CategoryIDs != nil {
			return tx.Products().SetCategories(ctx, id, in.CategoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, op, "Product", id)
	}

	s.invalidateListings(ctx)
	return s.Get(ctx, id)
}

// Delete removes a product and its dependent rows, then invalidates
// listings.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	const op = "product.delete"

	if err := s.requireAdmin(ctx, op); err != nil {
		return err
	}
	if err := s.store.Products().Delete(ctx, id); err != nil {
		return translate(err, op, "Product", id)
	}
	s.invalidateListings(ctx)
	return nil
}

// InvalidateListings advances the listing dataset version. Exposed for the
// rating service, whose writes change the aggregates embedded in listings.
func (s *ProductService) InvalidateListings(ctx context.Context) {
	s.invalidateListings(ctx)
}

func (s *ProductService) invalidateListings(ctx context.Context) {
	if !s.cacheEnabled {
		return
	}
	if err := s.listings.Bump(ctx); err != nil {
		// Entries have no TTL, so a failed bump can serve stale listings
		// until the next successful one. Loud log, no request failure.
		s.logger.ErrorContext(ctx, "failed to invalidate product listings",
			slog.String("error", err.Error()))
	}
}

func (s *ProductService) requireAdmin(ctx context.Context, op string) error {
	a, err := requireAuth(ctx, op)
	if err != nil {
		return err
	}
	if !a.Privileged() {
		return domain.Forbidden(op, "You do not have permission to manage the catalog")
	}
	return nil
}

// roundedMean computes the 1-decimal mean of the rating values, zero when
// empty.
func roundedMean(ratings []domain.Rating) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r.Value)))
	}
	return sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(1)
}
