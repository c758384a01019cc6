package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

type productRepo Store

func (r *productRepo) categoriesOf(id int64) []domain.Category {
	ids := r.d.productCategories[id]
	out := make([]domain.Category, 0, len(ids))
	for _, cid := range ids {
		if c, ok := r.d.categories[cid]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *productRepo) Get(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.d.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Categories = r.categoriesOf(id)
	return &p, nil
}

func (r *productRepo) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.d.products))
	for id, p := range r.d.products {
		p.Categories = r.categoriesOf(id)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *productRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		for _, c := range p.Categories {
			if strings.EqualFold(c.Name, category) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *productRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.d.nextProductID++
	p.ID = r.d.nextProductID
	stored := *p
	stored.Categories = nil
	r.d.products[p.ID] = stored
	return nil
}

func (r *productRepo) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *p
	stored.Categories = nil
	r.d.products[p.ID] = stored
	return nil
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.d.products, id)
	delete(r.d.productCategories, id)
	for key := range r.d.ratings {
		if key.productID == id {
			delete(r.d.ratings, key)
		}
	}
	for key := range r.d.cartItems {
		if key.productID == id {
			delete(r.d.cartItems, key)
		}
	}
	return nil
}

func (r *productRepo) SetCategories(_ context.Context, productID int64, categoryIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.products[productID]; !ok {
		return repository.ErrNotFound
	}
	ids := make([]int64, 0, len(categoryIDs))
	for _, cid := range categoryIDs {
		if _, ok := r.d.categories[cid]; ok {
			ids = append(ids, cid)
		}
	}
	r.d.productCategories[productID] = ids
	return nil
}

func (r *productRepo) SetRating(_ context.Context, productID int64, rate decimal.Decimal, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.d.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Rate = rate
	p.Count = count
	r.d.products[productID] = p
	return nil
}

type categoryRepo Store

func (r *categoryRepo) Get(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.d.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *categoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Category, 0, len(r.d.categories))
	for _, c := range r.d.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *categoryRepo) Create(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.d.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return repository.ErrConflict
		}
	}
	r.d.nextCategory++
	c.ID = r.d.nextCategory
	r.d.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) Update(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.categories[c.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.d.categories {
		if id != c.ID && strings.EqualFold(existing.Name, c.Name) {
			return repository.ErrConflict
		}
	}
	r.d.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.d.categories, id)
	for pid, ids := range r.d.productCategories {
		kept := ids[:0]
		for _, cid := range ids {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		r.d.productCategories[pid] = kept
	}
	return nil
}

type ratingRepo Store

func (r *ratingRepo) Get(_ context.Context, productID, userID int64) (*domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rating, ok := r.d.ratings[ratingKey{productID, userID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rating, nil
}

func (r *ratingRepo) ListForProduct(_ context.Context, productID int64) ([]domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Rating, 0)
	for key, rating := range r.d.ratings {
		if key.productID == productID {
			out = append(out, rating)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ratingRepo) Upsert(_ context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ratingKey{rating.ProductID, rating.UserID}
	now := time.Now()
	if existing, ok := r.d.ratings[key]; ok {
		existing.Value = rating.Value
		existing.UpdatedAt = now
		r.d.ratings[key] = existing
		*rating = existing
		return nil
	}
	r.d.nextRatingID++
	rating.ID = r.d.nextRatingID
	rating.CreatedAt = now
	rating.UpdatedAt = now
	r.d.ratings[key] = *rating
	return nil
}

func (r *ratingRepo) Delete(_ context.Context, productID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.d.ratings, ratingKey{productID, userID})
	return nil
}
