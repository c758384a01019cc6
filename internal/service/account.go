package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/auth"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// AccountService handles login, logout and session resolution. Sessions
// are opaque random tokens stored server side with a fixed lifetime.
type AccountService struct {
	store      repository.Store
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewAccountService wires the account service.
func NewAccountService(store repository.Store, sessionTTL time.Duration, logger *slog.Logger) *AccountService {
	return &AccountService{store: store, sessionTTL: sessionTTL, logger: logger}
}

// Login verifies the credentials and issues a session token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	const op = "account.login"

	if username == "" || password == "" {
		return nil, domain.Invalid(op, "Username and password are required", nil)
	}

	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Unauthorized(op, "Invalid username or password")
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		s.logger.WarnContext(ctx, "failed login attempt",
			slog.String("username", username))
		return nil, domain.Unauthorized(op, "Invalid username or password")
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate session token")
	}
	session := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.store.Sessions().Create(ctx, session); err != nil {
		return nil, domain.Internal(err, op, "failed to persist session")
	}

	s.logger.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))
	return session, nil
}

// Logout discards the session. Unknown tokens are a no-op.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	const op = "account.logout"

	if err := s.store.Sessions().DeleteByToken(ctx, token); err != nil {
		return domain.Internal(err, op, "failed to delete session")
	}
	return nil
}

// Authenticate resolves a session token to an identity. Expired sessions
// are deleted on sight.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	const op = "account.authenticate"

	session, err := s.store.Sessions().GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Unauthorized(op, "Invalid or expired session")
		}
		return nil, domain.Internal(err, op, "failed to load session")
	}
	if session.Expired(time.Now()) {
		_ = s.store.Sessions().DeleteByToken(ctx, token)
		return nil, domain.Unauthorized(op, "Invalid or expired session")
	}

	user, err := s.store.Users().Get(ctx, session.UserID)
	if err != nil {
		return nil, domain.Unauthorized(op, "Invalid or expired session")
	}
	return &domain.Identity{
		ID:        user.ID,
		Username:  user.Username,
		Staff:     user.Staff,
		Superuser: user.Superuser,
	}, nil
}

// PurgeExpiredSessions removes expired sessions. Intended for a periodic
// background sweep.
func (s *AccountService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.store.Sessions().DeleteExpired(ctx)
	if err != nil {
		return 0, domain.Internal(err, "account.purge_sessions", "failed to purge sessions")
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "purged expired sessions", slog.Int64("count", n))
	}
	return n, nil
}
