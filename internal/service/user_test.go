package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/service"
)

func TestUserCreate_OpenRegistration(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Create(anon(), domain.UserCreate{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
		Address: &domain.AddressCreate{
			City:    "Portland",
			Zipcode: "97201",
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "correct horse battery staple", u.PasswordHash)

	addrs, err := f.users.ListAddresses(as(u), u.ID)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, "Portland", addrs[0].City)
}

func TestUserCreate_StripsPrivilegeFlagsFromAnonymous(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Create(anon(), domain.UserCreate{
		Username:  "mallory",
		Email:     "mallory@example.com",
		Password:  "secretsecret",
		Staff:     true,
		Superuser: true,
	})
	require.NoError(t, err)
	assert.False(t, u.Staff)
	assert.False(t, u.Superuser)

	// A privileged actor may grant the flags.
	admin := f.seedUser(t, "admin", false, true)
	staff, err := f.users.Create(as(admin), domain.UserCreate{
		Username: "boss",
		Email:    "boss@example.com",
		Password: "secretsecret",
		Staff:    true,
	})
	require.NoError(t, err)
	assert.True(t, staff.Staff)
}

func TestUserCreate_Uniqueness(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice", false, false)

	_, err := f.users.Create(anon(), domain.UserCreate{
		Username: "Alice",
		Email:    "other@example.com",
		Password: "secretsecret",
	})
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	_, err = f.users.Create(anon(), domain.UserCreate{
		Username: "alice2",
		Email:    "ALICE@example.com",
		Password: "secretsecret",
	})
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestUserGet_Ownership(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	bob := f.seedUser(t, "bob", false, false)
	staff := f.seedUser(t, "boss", true, false)

	_, err := f.users.Get(anon(), alice.ID)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))

	_, err = f.users.Get(as(bob), alice.ID)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	got, err := f.users.Get(as(alice), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got, err = f.users.Get(as(staff), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
}

func TestUserList_PrivilegedOnly(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	staff := f.seedUser(t, "boss", true, false)

	_, err := f.users.List(as(alice))
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	users, err := f.users.List(as(staff))
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserUpdate_RejectsTakenUsername(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	f.seedUser(t, "bob", false, false)

	taken := "bob"
	_, err := f.users.Update(as(alice), alice.ID, domain.UserUpdate{Username: &taken})
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	fresh := "alice2"
	updated, err := f.users.Update(as(alice), alice.ID, domain.UserUpdate{Username: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
}

func TestUserDelete_Cascades(t *testing.T) {
	f := newFixture(t)
	staff := f.seedUser(t, "boss", true, false)
	alice := f.seedUser(t, "alice", false, false)
	p := f.seedProduct(t, "backpack", "109.95")

	_, err := f.carts.Create(as(alice), domain.CartCreate{
		Items: []domain.CartItemOp{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.ratings.Set(as(alice), p.ID, 5, nil)
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(as(staff), alice.ID))

	_, err = f.users.Get(as(staff), alice.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	carts, err := f.carts.List(as(staff), nil)
	require.NoError(t, err)
	assert.Empty(t, carts)
}

func TestAddressLifecycle(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "alice", false, false)
	bob := f.seedUser(t, "bob", false, false)

	addr, err := f.users.CreateAddress(as(alice), alice.ID, domain.AddressCreate{
		Street:  "new road",
		Number:  "7682",
		City:    "kilcoole",
		Zipcode: "12926-3874",
		Geolocation: domain.Geolocation{
			Lat:  "-37.3159",
			Long: "81.1496",
		},
	})
	require.NoError(t, err)

	// Other users cannot see or touch it.
	_, err = f.users.GetAddress(as(bob), alice.ID, addr.ID)
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	city := "dublin"
	updated, err := f.users.UpdateAddress(as(alice), alice.ID, addr.ID, domain.AddressUpdate{
		City: &city,
	})
	require.NoError(t, err)
	assert.Equal(t, "dublin", updated.City)
	assert.Equal(t, "new road", updated.Street)

	require.NoError(t, f.users.DeleteAddress(as(alice), alice.ID, addr.ID))
	_, err = f.users.GetAddress(as(alice), alice.ID, addr.ID)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestAccountLoginAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	accounts := service.NewAccountService(f.store, time.Hour, testLogger())

	_, err := f.users.Create(anon(), domain.UserCreate{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	_, err = accounts.Login(anon(), "alice", "wrong password")
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))

	_, err = accounts.Login(anon(), "nobody", "whatever")
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))

	session, err := accounts.Login(anon(), "alice", "correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)

	identity, err := accounts.Authenticate(anon(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)

	require.NoError(t, accounts.Logout(anon(), session.Token))
	_, err = accounts.Authenticate(anon(), session.Token)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestAccountAuthenticate_ExpiredSession(t *testing.T) {
	f := newFixture(t)
	accounts := service.NewAccountService(f.store, -time.Minute, testLogger())

	_, err := f.users.Create(anon(), domain.UserCreate{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	session, err := accounts.Login(anon(), "alice", "correct horse battery staple")
	require.NoError(t, err)

	_, err = accounts.Authenticate(anon(), session.Token)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}
