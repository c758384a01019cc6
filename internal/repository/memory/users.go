package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

type userRepo Store

func (r *userRepo) Get(_ context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.d.users {
		if strings.EqualFold(u.Username, username) {
			user := u
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.d.users))
	for _, u := range r.d.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.d.users {
		if strings.EqualFold(existing.Username, u.Username) ||
			strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrConflict
		}
	}
	r.d.nextUserID++
	u.ID = r.d.nextUserID
	r.d.users[u.ID] = *u
	return nil
}

func (r *userRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.d.users {
		if id == u.ID {
			continue
		}
		if strings.EqualFold(existing.Username, u.Username) ||
			strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrConflict
		}
	}
	r.d.users[u.ID] = *u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.d.users, id)
	for aid, a := range r.d.addresses {
		if a.UserID == id {
			delete(r.d.addresses, aid)
		}
	}
	for cid, c := range r.d.carts {
		if c.UserID == id {
			for key := range r.d.cartItems {
				if key.cartID == cid {
					delete(r.d.cartItems, key)
				}
			}
			delete(r.d.carts, cid)
		}
	}
	for key := range r.d.ratings {
		if key.userID == id {
			delete(r.d.ratings, key)
		}
	}
	for token, s := range r.d.sessions {
		if s.UserID == id {
			delete(r.d.sessions, token)
		}
	}
	return nil
}

func (r *userRepo) UsernameTaken(_ context.Context, username string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, u := range r.d.users {
		if id != excludeID && strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, u := range r.d.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

type addressRepo Store

func (r *addressRepo) Get(_ context.Context, id int64) (*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.d.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *addressRepo) GetForUser(_ context.Context, userID, id int64) (*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.d.addresses[id]
	if !ok || a.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *addressRepo) ListForUser(_ context.Context, userID int64) ([]domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Address, 0)
	for _, a := range r.d.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *addressRepo) Create(_ context.Context, a *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.users[a.UserID]; !ok {
		return repository.ErrNotFound
	}
	r.d.nextAddressID++
	a.ID = r.d.nextAddressID
	r.d.addresses[a.ID] = *a
	return nil
}

func (r *addressRepo) Update(_ context.Context, a *domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.addresses[a.ID]; !ok {
		return repository.ErrNotFound
	}
	r.d.addresses[a.ID] = *a
	return nil
}

func (r *addressRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.addresses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.d.addresses, id)
	return nil
}

type sessionRepo Store

func (r *sessionRepo) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.d.sessions[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *sessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.d.sessions[s.Token]; ok {
		return repository.ErrConflict
	}
	r.d.nextSessionID++
	s.ID = r.d.nextSessionID
	r.d.sessions[s.Token] = *s
	return nil
}

func (r *sessionRepo) DeleteByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.d.sessions, token)
	return nil
}

func (r *sessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var n int64
	for token, s := range r.d.sessions {
		if s.Expired(now) {
			delete(r.d.sessions, token)
			n++
		}
	}
	return n, nil
}
