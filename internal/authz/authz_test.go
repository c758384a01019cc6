package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nkozdemir/fakestore-backend-sub000/internal/authz"
	"github.com/nkozdemir/fakestore-backend-sub000/internal/domain"
)

func TestCanAct(t *testing.T) {
	tests := []struct {
		name   string
		actor  authz.Actor
		target authz.Target
		want   authz.Outcome
	}{
		{
			name:   "unauthenticated actor is rejected",
			actor:  authz.Actor{},
			target: authz.Target{ID: 1, Known: true},
			want:   authz.Unauthorized,
		},
		{
			name:   "unauthenticated rejection precedes ownership check",
			actor:  authz.Actor{ID: 0},
			target: authz.Target{ID: 7, Known: true},
			want:   authz.Unauthorized,
		},
		{
			name:   "owner acts on self",
			actor:  authz.Actor{ID: 3, Authenticated: true},
			target: authz.Target{ID: 3, Known: true},
			want:   authz.Allow,
		},
		{
			name:   "regular user cannot act on another user",
			actor:  authz.Actor{ID: 3, Authenticated: true},
			target: authz.Target{ID: 4, Known: true},
			want:   authz.Forbidden,
		},
		{
			name:   "staff acts on any target",
			actor:  authz.Actor{ID: 3, Authenticated: true, Staff: true},
			target: authz.Target{ID: 4, Known: true},
			want:   authz.Allow,
		},
		{
			name:   "superuser acts on any target",
			actor:  authz.Actor{ID: 3, Authenticated: true, Superuser: true},
			target: authz.Target{ID: 4, Known: true},
			want:   authz.Allow,
		},
		{
			name:   "implicit self target",
			actor:  authz.Actor{ID: 3, Authenticated: true},
			target: authz.Target{},
			want:   authz.Allow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.CanAct(tt.actor, tt.target))
		})
	}
}

func TestCanAssignCart(t *testing.T) {
	admin := authz.Actor{ID: 1, Authenticated: true, Superuser: true}

	tests := []struct {
		name   string
		actor  authz.Actor
		target authz.Target
		want   authz.Outcome
	}{
		{
			name:   "missing target user",
			actor:  admin,
			target: authz.Target{ID: 99, Known: true, Exists: false},
			want:   authz.NotFound,
		},
		{
			name:   "staff target cannot own a cart",
			actor:  admin,
			target: authz.Target{ID: 2, Known: true, Exists: true, Privileged: true},
			want:   authz.Forbidden,
		},
		{
			name:   "target already owns a cart",
			actor:  admin,
			target: authz.Target{ID: 2, Known: true, Exists: true, HasResource: true},
			want:   authz.Conflict,
		},
		{
			name:   "eligible target",
			actor:  admin,
			target: authz.Target{ID: 2, Known: true, Exists: true},
			want:   authz.Allow,
		},
		{
			name:   "ownership check still applies first",
			actor:  authz.Actor{ID: 3, Authenticated: true},
			target: authz.Target{ID: 4, Known: true, Exists: true},
			want:   authz.Forbidden,
		},
		{
			name:   "unauthenticated actor",
			actor:  authz.Actor{},
			target: authz.Target{ID: 2, Known: true, Exists: true},
			want:   authz.Unauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.CanAssignCart(tt.actor, tt.target))
		})
	}
}

func TestListScope(t *testing.T) {
	user := authz.Actor{ID: 5, Authenticated: true}
	staff := authz.Actor{ID: 1, Authenticated: true, Staff: true}
	other := int64(9)
	self := int64(5)

	tests := []struct {
		name      string
		actor     authz.Actor
		filter    *int64
		wantScope authz.Scope
		wantOut   authz.Outcome
	}{
		{"unauthenticated", authz.Actor{}, nil, authz.ScopeSelf, authz.Unauthorized},
		{"user without filter sees own", user, nil, authz.ScopeSelf, authz.Allow},
		{"user filtering self", user, &self, authz.ScopeSelf, authz.Allow},
		{"user filtering another user", user, &other, authz.ScopeSelf, authz.Forbidden},
		{"staff without filter sees all", staff, nil, authz.ScopeAll, authz.Allow},
		{"staff filtering a user", staff, &other, authz.ScopeFiltered, authz.Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, outcome := authz.ListScope(tt.actor, tt.filter)
			assert.Equal(t, tt.wantScope, scope)
			assert.Equal(t, tt.wantOut, outcome)
		})
	}
}

func TestError(t *testing.T) {
	assert.NoError(t, authz.Error(authz.Allow, "cart.get", "cart"))

	err := authz.Error(authz.Unauthorized, "cart.get", "cart")
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))

	err = authz.Error(authz.Forbidden, "cart.get", "cart")
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	err = authz.Error(authz.Conflict, "cart.create", "cart")
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	assert.Equal(t, "User already has a cart", domain.ErrorMessage(err))

	err = authz.Error(authz.NotFound, "cart.create", "cart")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestActorFromIdentity(t *testing.T) {
	assert.Equal(t, authz.Actor{}, authz.ActorFromIdentity(nil))

	a := authz.ActorFromIdentity(&domain.Identity{ID: 7, Staff: true})
	assert.True(t, a.Authenticated)
	assert.True(t, a.Privileged())
	assert.Equal(t, int64(7), a.ID)
}
