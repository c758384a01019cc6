package service

import (
	"context"
	"log/slog"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// CategoryService manages catalog categories. Renames and deletions touch
// the listings every product carries, so mutations invalidate the product
// listing cache.
type CategoryService struct {
	store    repository.Store
	products *ProductService
	logger   *slog.Logger
}

// NewCategoryService wires the category service.
func NewCategoryService(store repository.Store, products *ProductService, logger *slog.Logger) *CategoryService {
	return &CategoryService{store: store, products: products, logger: logger}
}

// List returns all categories.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.store.Categories().List(ctx)
	return cats, translate(err, "category.list", "Category", 0)
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := s.store.Categories().Get(ctx, id)
	return c, translate(err, "category.get", "Category", id)
}

// Create adds a category. Names are unique case-insensitively.
func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	const op = "category.create"

	if err := s.requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.Invalid(op, "Name is required", nil)
	}
	c := &domain.Category{Name: name}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		return nil, translate(err, op, "Category", 0)
	}
	return c, nil
}

// Update renames a category and invalidates product listings, whose
// category filters are keyed by name.
func (s *CategoryService) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	const op = "category.update"

	if err := s.requireAdmin(ctx, op); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.Invalid(op, "Name is required", nil)
	}
	c := &domain.Category{ID: id, Name: name}
	if err := s.store.Categories().Update(ctx, c); err != nil {
		return nil, translate(err, op, "Category", id)
	}
	s.products.InvalidateListings(ctx)
	return c, nil
}

// Delete removes a category and detaches it from all products.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	const op = "category.delete"

	if err := s.requireAdmin(ctx, op); err != nil {
		return err
	}
	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return translate(err, op, "Category", id)
	}
	s.products.InvalidateListings(ctx)
	return nil
}

func (s *CategoryService) requireAdmin(ctx context.Context, op string) error {
	a, err := requireAuth(ctx, op)
	if err != nil {
		return err
	}
	if !a.Privileged() {
		return domain.Forbidden(op, "You do not have permission to manage the catalog")
	}
	return nil
}
