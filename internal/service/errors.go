// Package service implements the application's use cases on top of the
// repository, cache and authz packages. Services translate storage
// sentinels into domain errors and enforce authorization before touching
// state.
package service

import (
	"context"
	"errors"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/authz"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/repository"
)

// translate maps repository sentinels to domain errors. id is included in
// the not-found details; pass zero when no single row is implicated.
func translate(err error, op, resource string, id int64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return domain.NotFound(op, resource, id)
	case errors.Is(err, repository.ErrConflict):
		return domain.Conflict(op, resource+" already exists")
	default:
		return domain.Internal(err, op, "storage operation failed")
	}
}

// actor resolves the acting identity from context.
func actor(ctx context.Context) authz.Actor {
	return authz.ActorFromIdentity(domain.IdentityFromContext(ctx))
}

// requireAuth returns an unauthorized error when no identity is attached.
func requireAuth(ctx context.Context, op string) (authz.Actor, error) {
	a := actor(ctx)
	if !a.Authenticated || a.ID == 0 {
		return a, domain.Unauthorized(op, "Authentication required")
	}
	return a, nil
}
