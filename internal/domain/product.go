package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is an independent label referenced, never owned, by products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product represents a catalog entry.
// Rate and Count are derived from the product's rating rows and are never
// written directly; see the rating operations on ProductService.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Rate        decimal.Decimal `json:"rate"`
	Count       int             `json:"count"`
	Categories  []Category      `json:"categories"`
}

// Rating is a single user's score for a product.
// At most one row exists per (product, user) pair.
type Rating struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	UserID    int64     `json:"userId"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary is the aggregate view returned by the rating operations.
// UserRating is nil when the requesting user has not rated the product.
type RatingSummary struct {
	ProductID  int64           `json:"productId"`
	Rate       decimal.Decimal `json:"rate"`
	Count      int             `json:"count"`
	UserRating *int            `json:"userRating"`
}

// ProductCreate carries the fields accepted when creating a product.
// Rate and Count may be seeded for imported catalog data; afterwards they
// are owned by the rating aggregator.
type ProductCreate struct {
	Title       string
	Price       decimal.Decimal
	Description string
	Image       string
	Rate        *decimal.Decimal
	Count       *int
	CategoryIDs []int64
}

// ProductUpdate carries the fields accepted when updating a product.
// Nil fields are left untouched; a non-nil CategoryIDs replaces the
// category set wholesale.
type ProductUpdate struct {
	Title       *string
	Price       *decimal.Decimal
	Description *string
	Image       *string
	CategoryIDs []int64
}
