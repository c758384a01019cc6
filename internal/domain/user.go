package domain

import "time"

// User is an account that can authenticate, own a cart and own addresses.
// Staff/Superuser accounts administer the catalog and other users but are
// not eligible to own carts.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstname"`
	LastName     string `json:"lastname"`
	Phone        string `json:"phone"`
	Staff        bool   `json:"isStaff"`
	Superuser    bool   `json:"isSuperuser"`
}

// Privileged reports whether the account is staff or superuser.
func (u User) Privileged() bool {
	return u.Staff || u.Superuser
}

// Geolocation holds the coordinate pair of an address.
// The upstream API represents coordinates as strings; they are carried
// verbatim rather than parsed.
type Geolocation struct {
	Lat  string `json:"lat"`
	Long string `json:"long"`
}

// Address is a delivery address owned by a user.
type Address struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"-"`
	Street      string      `json:"street"`
	Number      string      `json:"number"`
	City        string      `json:"city"`
	Zipcode     string      `json:"zipcode"`
	Geolocation Geolocation `json:"geolocation"`
}

// UserCreate carries the accepted fields for user creation.
type UserCreate struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Staff     bool
	Superuser bool
	Address   *AddressCreate
}

// UserUpdate carries the accepted fields for user updates.
// Nil fields are left untouched.
type UserUpdate struct {
	Username  *string
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *AddressCreate
}

// AddressCreate carries the accepted fields for address creation.
type AddressCreate struct {
	Street      string
	Number      string
	City        string
	Zipcode     string
	Geolocation Geolocation
}

// AddressUpdate carries the accepted fields for address updates.
// Nil fields are left untouched.
type AddressUpdate struct {
	Street  *string
	Number  *string
	City    *string
	Zipcode *string
	Lat     *string
	Long    *string
}

// Session is an opaque login token bound to a user.
type Session struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
