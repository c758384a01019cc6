package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
)

type cartRepo struct {
	db DBTX
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var c domain.Cart
	if err := row.Scan(&c.ID, &c.UserID, &c.Date); err != nil {
		return nil, translateErr(err)
	}
	return &c, nil
}

func (r *cartRepo) Get(ctx context.Context, id int64) (*domain.Cart, error) {
	return scanCart(r.db.QueryRow(ctx,
		`SELECT id, user_id, date FROM carts WHERE id = $1`, id))
}

func (r *cartRepo) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	return scanCart(r.db.QueryRow(ctx,
		`SELECT id, user_id, date FROM carts WHERE user_id = $1`, userID))
}

func (r *cartRepo) List(ctx context.Context) ([]domain.Cart, error) {
	return r.list(ctx, `SELECT id, user_id, date FROM carts ORDER BY id`)
}

func (r *cartRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Cart, error) {
	return r.list(ctx,
		`SELECT id, user_id, date FROM carts WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *cartRepo) list(ctx context.Context, query string, args ...any) ([]domain.Cart, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make([]domain.Cart, 0)
	for rows.Next() {
		var c domain.Cart
		if err := rows.Scan(&c.ID, &c.UserID, &c.Date); err != nil {
			return nil, translateErr(err)
		}
		out = append(out, c)
	}
	return out, translateErr(rows.Err())
}

func (r *cartRepo) Create(ctx context.Context, c *domain.Cart) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO carts (user_id, date) VALUES ($1, $2) RETURNING id`,
		c.UserID, c.Date)
	return translateErr(row.Scan(&c.ID))
}

func (r *cartRepo) Update(ctx context.Context, c *domain.Cart) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE carts SET user_id = $2, date = $3 WHERE id = $1`,
		c.ID, c.UserID, c.Date)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *cartRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

type cartItemRepo struct {
	db DBTX
}

func (r *cartItemRepo) Get(ctx context.Context, cartID, productID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.db.QueryRow(ctx,
		`SELECT id, cart_id, product_id, quantity
		 FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID).
		Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		return nil, translateErr(err)
	}
	return &item, nil
}

func (r *cartItemRepo) ListForCart(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, cart_id, product_id, quantity
		 FROM cart_items WHERE cart_id = $1 ORDER BY id`, cartID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make([]domain.CartItem, 0)
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity); err != nil {
			return nil, translateErr(err)
		}
		out = append(out, item)
	}
	return out, translateErr(rows.Err())
}

func (r *cartItemRepo) Create(ctx context.Context, item *domain.CartItem) error {
	row := r.db.QueryRow(ctx,
		`INSERT INTO cart_items (cart_id, product_id, quantity)
		 VALUES ($1, $2, $3) RETURNING id`,
		item.CartID, item.ProductID, item.Quantity)
	return translateErr(row.Scan(&item.ID))
}

func (r *cartItemRepo) UpdateQuantity(ctx context.Context, cartID, productID int64, quantity int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE cart_items SET quantity = $3
		 WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID, quantity)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsAffected()
	}
	return nil
}

func (r *cartItemRepo) Delete(ctx context.Context, cartID, productID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID)
	return translateErr(err)
}

func (r *cartItemRepo) DeleteForCart(ctx context.Context, cartID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	return translateErr(err)
}
