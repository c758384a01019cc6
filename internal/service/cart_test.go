package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
)

func quantities(c *domain.Cart) map[int64]int {
	out := make(map[int64]int, len(c.Items))
	for _, it := range c.Items {
		out[it.ProductID] = it.Quantity
	}
	return out
}

func TestCartCreate(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p1 := f.seedProduct(t, "backpack", "109.95")
	p2 := f.seedProduct(t, "shirt", "22.30")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, cart.UserID)
	assert.Equal(t, map[int64]int{p1.ID: 2, p2.ID: 1}, quantities(cart))
	assert.False(t, cart.Date.IsZero())
}

func TestCartCreate_SkipsUnknownProducts(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p := f.seedProduct(t, "backpack", "109.95")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{
			{ProductID: p.ID, Quantity: 1},
			{ProductID: 999, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{p.ID: 1}, quantities(cart))
}

func TestCartCreate_Eligibility(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", false, true)
	staff := f.seedUser(t, "boss", true, false)
	alice := f.seedUser(t, "alice", false, false)

	// Unauthenticated.
	_, err := f.carts.Create(anon(), domain.CartCreate{UserID: alice.ID})
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))

	// Regular users cannot create carts for others.
	bob := f.seedUser(t, "bob", false, false)
	_, err = f.carts.Create(as(bob), domain.CartCreate{UserID: alice.ID})
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	// Admin targeting a missing user.
	_, err = f.carts.Create(as(admin), domain.CartCreate{UserID: 999})
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	// Staff accounts cannot own carts.
	_, err = f.carts.Create(as(admin), domain.CartCreate{UserID: staff.ID})
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	// One cart per user.
	_, err = f.carts.Create(as(alice), domain.CartCreate{})
	require.NoError(t, err)
	_, err = f.carts.Create(as(admin), domain.CartCreate{UserID: alice.ID})
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestCartGet_Ownership(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	bob := f.seedUser(t, "bob", false, false)
	staff := f.seedUser(t, "boss", true, false)

	cart, err := f.carts.Create(as(alice), domain.CartCreate{})
	require.NoError(t, err)

	_, err = f.carts.Get(as(bob), cart.ID)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	got, err := f.carts.Get(as(staff), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)

	_, err = f.carts.Get(as(alice), 999)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestCartList_Scope(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	bob := f.seedUser(t, "bob", false, false)
	staff := f.seedUser(t, "boss", true, false)

	_, err := f.carts.Create(as(alice), domain.CartCreate{})
	require.NoError(t, err)
	_, err = f.carts.Create(as(bob), domain.CartCreate{})
	require.NoError(t, err)

	own, err := f.carts.List(as(alice), nil)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, alice.ID, own[0].UserID)

	_, err = f.carts.List(as(alice), &bob.ID)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	all, err := f.carts.List(as(staff), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.carts.List(as(staff), &bob.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, bob.ID, filtered[0].UserID)
}

func TestCartPatch_ApplicationOrder(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p1 := f.seedProduct(t, "backpack", "109.95")
	p2 := f.seedProduct(t, "shirt", "22.30")
	p3 := f.seedProduct(t, "jacket", "55.99")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{{ProductID: p1.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Add increments existing lines and creates new ones; update sets the
	// quantity outright; remove drops the line.
	got, err := f.carts.Patch(as(alice), cart.ID, domain.CartPatch{
		Add:    []domain.CartItemOp{{ProductID: p1.ID, Quantity: 2}, {ProductID: p2.ID, Quantity: 1}},
		Update: []domain.CartItemOp{{ProductID: p3.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{p1.ID: 3, p2.ID: 1, p3.ID: 4}, quantities(got))

	got, err = f.carts.Patch(as(alice), cart.ID, domain.CartPatch{
		Remove: []int64{p2.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{p1.ID: 3, p3.ID: 4}, quantities(got))
}

func TestCartPatch_UpdateOverridesSameBatchAdd(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p := f.seedProduct(t, "backpack", "109.95")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{})
	require.NoError(t, err)

	got, err := f.carts.Patch(as(alice), cart.ID, domain.CartPatch{
		Add:    []domain.CartItemOp{{ProductID: p.ID, Quantity: 2}},
		Update: []domain.CartItemOp{{ProductID: p.ID, Quantity: 7}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{p.ID: 7}, quantities(got))
}

func TestCartPatch_RemoveWinsWithinBatch(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p := f.seedProduct(t, "backpack", "109.95")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{})
	require.NoError(t, err)

	got, err := f.carts.Patch(as(alice), cart.ID, domain.CartPatch{
		Add:    []domain.CartItemOp{{ProductID: p.ID, Quantity: 2}},
		Update: []domain.CartItemOp{{ProductID: p.ID, Quantity: 7}},
		Remove: []int64{p.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCartPatch_RemoveAbsentIsNoOp(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p := f.seedProduct(t, "backpack", "109.95")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	got, err := f.carts.Patch(as(alice), cart.ID, domain.CartPatch{
		Remove: []int64{999},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{p.ID: 1}, quantities(got))
}

func TestCartPatch_InvalidQuantityFailsWholePatch(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p1 := f.seedProduct(t, "backpack", "109.95")
	p2 := f.seedProduct(t, "shirt", "22.30")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{{ProductID: p1.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.carts.Patch(as(alice), cart.ID, domain.CartPatch{
		Add: []domain.CartItemOp{
			{ProductID: p2.ID, Quantity: 1},
			{ProductID: p1.ID, Quantity: 0},
		},
	})
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	got, err := f.carts.Get(as(alice), cart.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{p1.ID: 1}, quantities(got), "failed patch must leave the cart untouched")
}

func TestCartPatch_ReassignmentConflictRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", false, true)
	alice := f.seedUser(t, "alice", false, false)
	bob := f.seedUser(t, "bob", false, false)
	p := f.seedProduct(t, "backpack", "109.95")

	aliceCart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.carts.Create(as(bob), domain.CartCreate{})
	require.NoError(t, err)

	// Bob already owns a cart, so reassigning Alice's cart to him must
	// fail and must not apply the accompanying item operations either.
	_, err = f.carts.Patch(as(admin), aliceCart.ID, domain.CartPatch{
		UserID: &bob.ID,
		Add:    []domain.CartItemOp{{ProductID: p.ID, Quantity: 5}},
	})
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	got, err := f.carts.Get(as(alice), aliceCart.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.UserID)
	assert.Equal(t, map[int64]int{p.ID: 1}, quantities(got))
}

func TestCartPatch_ReassignmentToEligibleUser(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin", false, true)
	alice := f.seedUser(t, "alice", false, false)
	carol := f.seedUser(t, "carol", false, false)

	cart, err := f.carts.Create(as(alice), domain.CartCreate{})
	require.NoError(t, err)

	got, err := f.carts.Patch(as(admin), cart.ID, domain.CartPatch{UserID: &carol.ID})
	require.NoError(t, err)
	assert.Equal(t, carol.ID, got.UserID)
}

func TestCartPatch_EmptyReturnsCartUnchanged(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	bob := f.seedUser(t, "bob", false, false)
	p := f.seedProduct(t, "backpack", "109.95")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	got, err := f.carts.Patch(as(alice), cart.ID, domain.CartPatch{})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{p.ID: 2}, quantities(got))
	assert.True(t, got.Date.Equal(cart.Date))

	// Ownership is still enforced on the empty patch.
	_, err = f.carts.Patch(as(bob), cart.ID, domain.CartPatch{})
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
}

func TestCartPatch_MetadataOnly(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)

	cart, err := f.carts.Create(as(alice), domain.CartCreate{})
	require.NoError(t, err)

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got, err := f.carts.Patch(as(alice), cart.ID, domain.CartPatch{Date: &when})
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(when))
}

func TestCartUpdate_RebuildsItemsWholesale(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p1 := f.seedProduct(t, "backpack", "109.95")
	p2 := f.seedProduct(t, "shirt", "22.30")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{{ProductID: p1.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	got, err := f.carts.Update(as(alice), cart.ID, domain.CartUpdate{
		Items: []domain.CartItemOp{{ProductID: p2.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{p2.ID: 1}, quantities(got))
}

func TestCartDelete_CascadesItems(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	p := f.seedProduct(t, "backpack", "109.95")

	cart, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.carts.Delete(as(alice), cart.ID))

	_, err = f.carts.Get(as(alice), cart.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	// The user is eligible for a fresh cart again.
	fresh, err := f.carts.Create(as(alice), domain.CartCreate{})
	require.NoError(t, err)
	assert.Empty(t, fresh.Items)
}
