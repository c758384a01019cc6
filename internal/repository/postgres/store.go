// Package postgres implements repository.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx. Every
// repository method runs against it, so the same code serves both plain
// calls and calls inside WithTx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements repository.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	db   DBTX
}

var _ repository.Store = (*Store)(nil)

// NewStore wraps a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

func (s *Store) Products() repository.ProductRepo    { return &productRepo{db: s.db} }
func (s *Store) Categories() repository.CategoryRepo { return &categoryRepo{db: s.db} }
func (s *Store) Ratings() repository.RatingRepo      { return &ratingRepo{db: s.db} }
func (s *Store) Carts() repository.CartRepo          { return &cartRepo{db: s.db} }
func (s *Store) CartItems() repository.CartItemRepo  { return &cartItemRepo{db: s.db} }
func (s *Store) Users() repository.UserRepo          { return &userRepo{db: s.db} }
func (s *Store) Addresses() repository.AddressRepo   { return &addressRepo{db: s.db} }
func (s *Store) Sessions() repository.SessionRepo    { return &sessionRepo{db: s.db} }

// WithTx runs fn inside a single database transaction. Calls made through
// the Store passed to fn share that transaction. Nested calls reuse the
// open transaction instead of starting a new one.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
