// Package auth resolves the acting user on incoming requests. The engine
// never authenticates credentials itself; it trusts the identity the API
// gateway established and forwarded in a header, then verifies the user
// exists and loads the entitlement plan.
package auth

import (
	"context"
	"strconv"

	"github.com/peakform/peakform/store"
)

// UserIDHeader carries the authenticated user id set by the API gateway.
// Requests reaching this service bypass the gateway only inside the private
// network, so the header is trusted as-is.
const UserIDHeader = "X-Peakform-User-Id"

type contextKey int

const userContextKey contextKey = iota

// Resolver resolves a forwarded identity to a user.
type Resolver interface {
	// Resolve returns the user for the given header value, or nil when the
	// identity cannot be resolved.
	Resolve(ctx context.Context, headerValue string) (*store.User, error)
}

type storeResolver struct {
	store *store.Store
}

// NewResolver creates a Resolver backed by the user store.
func NewResolver(s *store.Store) Resolver {
	return &storeResolver{store: s}
}

func (r *storeResolver) Resolve(ctx context.Context, headerValue string) (*store.User, error) {
	if headerValue == "" {
		return nil, nil
	}
	id64, err := strconv.ParseInt(headerValue, 10, 32)
	if err != nil || id64 <= 0 {
		return nil, nil
	}
	id := int32(id64)
	return r.store.GetUser(ctx, &store.FindUser{ID: &id})
}

// SetUserInContext stores the resolved user in the context.
func SetUserInContext(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the resolved user, or nil when unauthenticated.
func UserFromContext(ctx context.Context) *store.User {
	user, _ := ctx.Value(userContextKey).(*store.User)
	return user
}
