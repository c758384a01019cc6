package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

type productRepo struct {
	db DBTX
}

const productColumns = `p.id, p.title, p.price, p.description, p.image, p.rate, p.rating_count`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.Image, &p.Rate, &p.Count)
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (r *productRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	cats, err := r.categoriesFor(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.Categories = cats[p.ID]
	return p, nil
}

func (r *productRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products p ORDER BY p.id`)
}

func (r *productRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.list(ctx,
		`SELECT `+productColumns+` FROM products p
		 JOIN product_categories pc ON pc.product_id = p.id
		 JOIN categories c ON c.id = pc.category_id
		 WHERE lower(c.name) = lower($1)
		 ORDER BY p.id`, category)
}

func (r *productRepo) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.Image, &p.Rate, &p.Count); err != nil {
			return nil, translateErr(err)
		}
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err)
	}

	cats, err := r.categoriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i].Categories = cats[products[i].ID]
	}
	return products, nil
}

// categoriesFor loads category memberships for the given products in one
// query to avoid an N+1 on listings.
func (r *productRepo) categoriesFor(ctx context.Context, productIDs []int64) (map[int64][]domain.Category, error) {
	out := make(map[int64][]domain.Category, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT pc.product_id, c.id, c.name
		 FROM product_categories pc
		 JOIN categories c ON c.id = pc.category_id
		 WHERE pc.product_id = ANY($1)
		 ORDER BY pc.product_id, c.id`, productIDs)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var c domain.Category
		if err := rows.Scan(&productID, &c.ID, &c.Name); err != nil {
			return nil, translateErr(err)
		}
		out[productID] = append(out[productID], c)
	}
	return out, translateErr(rows.Err())
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO products (title, price, description, image, rate, rating_count)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.Title, p.Price, p.Description, p.Image, p.Rate, p.Count)
	return translateErr(row.Scan(&p.ID))
}

func (r *productRepo) Update(ctx context.Context, p *domain.Product) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products
		 SET title = $2, price = $3, description = $4, image = $5
		 WHERE id = $1`,
		p.ID, p.Title, p.Price, p.Description, p.Image)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *productRepo) SetCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return translateErr(err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO product_categories (product_id, category_id)
		 SELECT $1, c.id FROM categories c WHERE c.id = ANY($2)
		 ON CONFLICT DO NOTHING`,
		productID, categoryIDs)
	return translateErr(err)
}

func (r *productRepo) SetRating(ctx context.Context, productID int64, rate decimal.Decimal, count int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET rate = $2, rating_count = $3 WHERE id = $1`,
		productID, rate, count)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

type categoryRepo struct {
	db DBTX
}

func (r *categoryRepo) Get(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, translateErr(err)
		}
		out = append(out, c)
	}
	return out, translateErr(rows.Err())
}

func (r *categoryRepo) Create(ctx context.Context, c *domain.Category) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name)
	return translateErr(row.Scan(&c.ID))
}

func (r *categoryRepo) Update(ctx context.Context, c *domain.Category) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1`, c.ID, c.Name)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

type ratingRepo struct {
	db DBTX
}

func (r *ratingRepo) Get(ctx context.Context, productID, userID int64) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.db.QueryRow(ctx,
		`SELECT id, product_id, user_id, value, created_at, updated_at
		 FROM ratings WHERE product_id = $1 AND user_id = $2`,
		productID, userID).
		Scan(&rating.ID, &rating.ProductID, &rating.UserID, &rating.Value,
			&rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &rating, nil
}

func (r *ratingRepo) ListForProduct(ctx context.Context, productID int64) ([]domain.Rating, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, user_id, value, created_at, updated_at
		 FROM ratings WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make([]domain.Rating, 0)
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(&rating.ID, &rating.ProductID, &rating.UserID,
			&rating.Value, &rating.CreatedAt, &rating.UpdatedAt); err != nil {
			return nil, translateErr(err)
		}
		out = append(out, rating)
	}
	return out, translateErr(rows.Err())
}

func (r *ratingRepo) Upsert(ctx context.Context, rating *domain.Rating) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO ratings (product_id, user_id, value, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 ON CONFLICT (product_id, user_id)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		 RETURNING id, created_at, updated_at`,
		rating.ProductID, rating.UserID, rating.Value)
	return translateErr(row.Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt))
}

func (r *ratingRepo) Delete(ctx context.Context, productID, userID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM ratings WHERE product_id = $1 AND user_id = $2`,
		productID, userID)
	return translateErr(err)
}

func errNoRowsAffected() error {
	return repository.ErrNotFound
}
