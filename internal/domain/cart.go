package domain

import "time"

// Cart holds a user's line items. Every non-privileged user owns exactly
// one cart; staff and superuser accounts own none.
type Cart struct {
	ID     int64      `json:"id"`
	UserID int64      `json:"userId"`
	Date   time.Time  `json:"date"`
	Items  []CartItem `json:"items"`
}

// CartItem is one (product, quantity) line within a cart.
// Uniqueness per (cart, product) is enforced by the patch engine and by
// the storage layer.
type CartItem struct {
	ID        int64 `json:"id"`
	CartID    int64 `json:"-"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CartItemOp references a product and quantity inside a patch operation.
type CartItemOp struct {
	ProductID int64
	Quantity  int
}

// CartCreate carries the accepted fields for cart creation.
type CartCreate struct {
	UserID int64
	Date   time.Time
	Items  []CartItemOp
}

// CartUpdate replaces a cart's metadata and, when Items is non-nil,
// rebuilds its line items wholesale.
type CartUpdate struct {
	UserID *int64
	Date   *time.Time
	Items  []CartItemOp
}

// CartPatch is an ordered operation set applied to a cart in one
// transaction. Application order is fixed: metadata (Date, UserID) first,
// then Add, then Update, then Remove. An update for a product added in the
// same batch overwrites the added quantity; a remove always wins.
type CartPatch struct {
	Add    []CartItemOp
	Update []CartItemOp
	Remove []int64
	Date   *time.Time
	UserID *int64
}

// Empty reports whether the patch carries no operations or metadata.
func (p CartPatch) Empty() bool {
	return len(p.Add) == 0 && len(p.Update) == 0 && len(p.Remove) == 0 &&
		p.Date == nil && p.UserID == nil
}
