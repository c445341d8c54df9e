package action

import (
	"context"
	"net/http"
	"strings"
)

// User is the authenticated caller of an action.
type User struct {
	ID      string
	AppLang string
}

// UserResolver identifies the caller of a request. A nil user with a nil
// error means the request is anonymous.
type UserResolver interface {
	ResolveUser(r *http.Request) (*User, error)
}

type UserResolverFunc func(r *http.Request) (*User, error)

func (f UserResolverFunc) ResolveUser(r *http.Request) (*User, error) { return f(r) }

// UserLookup loads a user by id. It returns a nil user when none exists.
type UserLookup func(ctx context.Context, id string) (*User, error)

// HeaderResolver reads the user id from header and loads it with lookup.
func HeaderResolver(header string, lookup UserLookup) UserResolver {
	header = strings.TrimSpace(header)
	return UserResolverFunc(func(r *http.Request) (*User, error) {
		if r == nil || header == "" {
			return nil, nil
		}
		id := strings.TrimSpace(r.Header.Get(header))
		if id == "" {
			return nil, nil
		}
		if lookup == nil {
			return &User{ID: id}, nil
		}
		return lookup(r.Context(), id)
	})
}

type userKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the user stored on ctx, if any.
func UserFrom(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(userKey{}).(*User)
	return u, ok && u != nil
}
