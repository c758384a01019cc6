// Package authz decides whether an acting identity may read or write a
// resource owned by a target identity. Decisions are pure functions over
// the facts the caller has already loaded, so the rules are testable
// without a persistence layer.
package authz

import (
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
)

// Outcome is the result of an authorization decision.
type Outcome int

const (
	Allow Outcome = iota
	Unauthorized
	Forbidden
	Conflict
	NotFound
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case Conflict:
		return "conflict"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// Actor is the identity making the request.
type Actor struct {
	ID            int64
	Authenticated bool
	Staff         bool
	Superuser     bool
}

// ActorFromIdentity builds an Actor from the request identity.
// A nil identity is an unauthenticated actor.
func ActorFromIdentity(identity *domain.Identity) Actor {
	if identity == nil {
		return Actor{}
	}
	return Actor{
		ID:            identity.ID,
		Authenticated: identity.ID != 0,
		Staff:         identity.Staff,
		Superuser:     identity.Superuser,
	}
}

// Privileged reports whether the actor may act on behalf of other users.
func (a Actor) Privileged() bool {
	return a.Staff || a.Superuser
}

// Target describes what the caller knows about the identity being acted on.
type Target struct {
	// ID is the target user id. Zero with Known=false means the actor is
	// acting on their own behalf.
	ID int64

	// Known is true when an explicit target id was supplied.
	Known bool

	// Exists is true when the target account was found in storage.
	// Only consulted by decisions that require a concrete account.
	Exists bool

	// Privileged is true when the target account is staff or superuser.
	Privileged bool

	// HasResource is true when the target already owns the resource in
	// question (e.g. a cart, for duplicate-ownership checks).
	HasResource bool
}

// Self builds a target for an actor operating on their own resources.
func Self(a Actor) Target {
	return Target{ID: a.ID, Known: true}
}

// CanAct decides whether the actor may read or write a resource owned by
// the target. Unauthenticated actors are rejected before ownership is
// evaluated; privileged actors may act on any target; everyone else only
// on themselves.
func CanAct(a Actor, t Target) Outcome {
	if !a.Authenticated || a.ID == 0 {
		return Unauthorized
	}
	if a.Privileged() {
		return Allow
	}
	if t.Known && t.ID != a.ID {
		return Forbidden
	}
	return Allow
}

// CanAssignCart decides whether a cart may be created for, or reassigned
// to, the target user. Beyond CanAct, the target must exist, must not be
// a staff/superuser account (those cannot own carts) and must not already
// own a cart. The three failure modes stay distinguishable: NotFound,
// Forbidden and Conflict respectively.
func CanAssignCart(a Actor, t Target) Outcome {
	if o := CanAct(a, t); o != Allow {
		return o
	}
	if !t.Exists {
		return NotFound
	}
	if t.Privileged {
		return Forbidden
	}
	if t.HasResource {
		return Conflict
	}
	return Allow
}

// Scope is the visibility of a list operation.
type Scope int

const (
	// ScopeSelf restricts the listing to the actor's own resources.
	ScopeSelf Scope = iota

	// ScopeFiltered restricts the listing to an explicit target user.
	ScopeFiltered

	// ScopeAll places no ownership restriction on the listing.
	ScopeAll
)

// ListScope decides the visibility of a list operation. targetID is the
// optional explicit filter from the request. Non-privileged actors only
// ever see their own resources; privileged actors may filter by any user
// or see everything.
func ListScope(a Actor, targetID *int64) (Scope, Outcome) {
	if !a.Authenticated || a.ID == 0 {
		return ScopeSelf, Unauthorized
	}
	if targetID == nil {
		if a.Privileged() {
			return ScopeAll, Allow
		}
		return ScopeSelf, Allow
	}
	if a.Privileged() {
		return ScopeFiltered, Allow
	}
	if *targetID == a.ID {
		return ScopeSelf, Allow
	}
	return ScopeSelf, Forbidden
}

// Error maps a non-Allow outcome to a domain error for the given
// operation. Returns nil for Allow.
func Error(o Outcome, op, resource string) error {
	switch o {
	case Allow:
		return nil
	case Unauthorized:
		return domain.Unauthorized(op, "Authentication required")
	case Forbidden:
		return domain.Forbidden(op, "You do not have permission to manage this "+resource)
	case Conflict:
		return domain.Conflict(op, "User already has a "+resource)
	case NotFound:
		return domain.Errorf(domain.ENOTFOUND, op, "User not found")
	}
	return domain.Errorf(domain.EINTERNAL, op, "unhandled authorization outcome")
}
