package service

import (
	"context"
	"log/slog"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/auth"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/authz"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// UserService manages accounts and their addresses. Registration is open;
// everything else is restricted to the account owner or a privileged
// actor.
type UserService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewUserService wires the user service.
func NewUserService(store repository.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// List returns all accounts. Privileged actors only.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	const op = "user.list"

	a, err := requireAuth(ctx, op)
	if err != nil {
		return nil, err
	}
	if !a.Privileged() {
		return nil, domain.Forbidden(op, "You do not have permission to list users")
	}
	users, err := s.store.Users().List(ctx)
	return users, translate(err, op, "User", 0)
}

// Get returns one account. Non-privileged actors may only read their own.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	const op = "user.get"

	if err := s.canManage(ctx, op, id); err != nil {
		return nil, err
	}
	u, err := s.store.Users().Get(ctx, id)
	return u, translate(err, op, "User", id)
}

// Create registers a new account, optionally with an initial address.
// Staff and superuser flags are only honored when the acting user is
// privileged; anonymous registration always yields a regular account.
func (s *UserService) Create(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	const op = "user.create"

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, domain.Invalid(op, "Username, email and password are required", nil)
	}
	if (in.Staff || in.Superuser) && !actor(ctx).Privileged() {
		in.Staff = false
		in.Superuser = false
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash password")
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Staff:        in.Staff,
		Superuser:    in.Superuser,
	}

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.checkUnique(ctx, tx, op, u.Username, u.Email, 0); err != nil {
			return err
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return translate(err, op, "User", 0)
		}
		if in.Address != nil {
			addr := addressFromCreate(u.ID, *in.Address)
			if err := tx.Addresses().Create(ctx, addr); err != nil {
				return translate(err, op, "Address", 0)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", u.ID),
		slog.String("username", u.Username))
	return u, nil
}

// Update applies a partial update. Password changes are rehashed; staff
// flags cannot be changed through this path.
func (s *UserService) Update(ctx context.Context, id int64, in domain.UserUpdate) (*domain.User, error) {
	const op = "user.update"

	if err := s.canManage(ctx, op, id); err != nil {
		return nil, err
	}

	var updated *domain.User
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		u, err := tx.Users().Get(ctx, id)
		if err != nil {
			return translate(err, op, "User", id)
		}
		if in.Username != nil {
			u.Username = *in.Username
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.Password != nil {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return domain.Internal(err, op, "failed to hash password")
			}
			u.PasswordHash = hash
		}
		if in.FirstName != nil {
			u.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			u.LastName = *in.LastName
		}
		if in.Phone != nil {
			u.Phone = *in.Phone
		}
		if err := s.checkUnique(ctx, tx, op, u.Username, u.Email, id); err != nil {
			return err
		}
		if err := tx.Users().Update(ctx, u); err != nil {
			return translate(err, op, "User", id)
		}
		if in.Address != nil {
			if err := s.replaceAddress(ctx, tx, op, id, *in.Address); err != nil {
				return err
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the account along with its addresses, cart, ratings and
// sessions.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	const op = "user.delete"

	if err := s.canManage(ctx, op, id); err != nil {
		return err
	}
	return translate(s.store.Users().Delete(ctx, id), op, "User", id)
}

// ListAddresses returns the user's addresses.
func (s *UserService) ListAddresses(ctx context.Context, userID int64) ([]domain.Address, error) {
	const op = "address.list"

	if err := s.canManage(ctx, op, userID); err != nil {
		return nil, err
	}
	addrs, err := s.store.Addresses().ListForUser(ctx, userID)
	return addrs, translate(err, op, "Address", 0)
}

// GetAddress returns one of the user's addresses.
func (s *UserService) GetAddress(ctx context.Context, userID, id int64) (*domain.Address, error) {
	const op = "address.get"

	if err := s.canManage(ctx, op, userID); err != nil {
		return nil, err
	}
	a, err := s.store.Addresses().GetForUser(ctx, userID, id)
	return a, translate(err, op, "Address", id)
}

// CreateAddress adds an address to the user.
func (s *UserService) CreateAddress(ctx context.Context, userID int64, in domain.AddressCreate) (*domain.Address, error) {
	const op = "address.create"

	if err := s.canManage(ctx, op, userID); err != nil {
		return nil, err
	}
	addr := addressFromCreate(userID, in)
	if err := s.store.Addresses().Create(ctx, addr); err != nil {
		return nil, translate(err, op, "User", userID)
	}
	return addr, nil
}

// UpdateAddress applies a partial update to one of the user's addresses.
func (s *UserService) UpdateAddress(ctx context.Context, userID, id int64, in domain.AddressUpdate) (*domain.Address, error) {
	const op = "address.update"

	if err := s.canManage(ctx, op, userID); err != nil {
		return nil, err
	}
	a, err := s.store.Addresses().GetForUser(ctx, userID, id)
	if err != nil {
		return nil, translate(err, op, "Address", id)
	}
	if in.Street != nil {
		a.Street = *in.Street
	}
	if in.Number != nil {
		a.Number = *in.Number
	}
	if in.City != nil {
		a.City = *in.City
	}
	if in.Zipcode != nil {
		a.Zipcode = *in.Zipcode
	}
	if in.Lat != nil {
		a.Geolocation.Lat = *in.Lat
	}
	if in.Long != nil {
		a.Geolocation.Long = *in.Long
	}
	if err := s.store.Addresses().Update(ctx, a); err != nil {
		return nil, translate(err, op, "Address", id)
	}
	return a, nil
}

// DeleteAddress removes one of the user's addresses.
func (s *UserService) DeleteAddress(ctx context.Context, userID, id int64) error {
	const op = "address.delete"

	if err := s.canManage(ctx, op, userID); err != nil {
		return err
	}
	if _, err := s.store.Addresses().GetForUser(ctx, userID, id); err != nil {
		return translate(err, op, "Address", id)
	}
	return translate(s.store.Addresses().Delete(ctx, id), op, "Address", id)
}

func (s *UserService) canManage(ctx context.Context, op string, userID int64) error {
	target := authz.Target{ID: userID, Known: true}
	return authz.Error(authz.CanAct(actor(ctx), target), op, "account")
}

func (s *UserService) checkUnique(ctx context.Context, tx repository.Store, op, username, email string, excludeID int64) error {
	taken, err := tx.Users().UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return domain.Internal(err, op, "failed to check username")
	}
	if taken {
		return domain.Conflict(op, "Username is already in use")
	}
	taken, err = tx.Users().EmailTaken(ctx, email, excludeID)
	if err != nil {
		return domain.Internal(err, op, "failed to check email")
	}
	if taken {
		return domain.Conflict(op, "Email is already in use")
	}
	return nil
}

// replaceAddress updates the user's first address or creates one when
// none exists.
func (s *UserService) replaceAddress(ctx context.Context, tx repository.Store, op string, userID int64, in domain.AddressCreate) error {
	existing, err := tx.Addresses().ListForUser(ctx, userID)
	if err != nil {
		return translate(err, op, "Address", 0)
	}
	addr := addressFromCreate(userID, in)
	if len(existing) > 0 {
		addr.ID = existing[0].ID
		return translate(tx.Addresses().Update(ctx, addr), op, "Address", addr.ID)
	}
	return translate(tx.Addresses().Create(ctx, addr), op, "Address", 0)
}

func addressFromCreate(userID int64, in domain.AddressCreate) *domain.Address {
	return &domain.Address{
		UserID:      userID,
		Street:      in.Street,
		Number:      in.Number,
		City:        in.City,
		Zipcode:     in.Zipcode,
		Geolocation: in.Geolocation,
	}
}
