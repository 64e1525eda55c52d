package auth

import (
	"context"
	"errors"
)

// ErrNoProvider is the panic value of MustFromContext when no Store was
// installed in the context.
var ErrNoProvider = errors.New("auth: session store used outside of its provider")

type storeKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the Store installed in ctx, if any.
func FromContext(ctx context.Context) (*Store, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(storeKey{}).(*Store)
	return s, ok && s != nil
}

// MustFromContext returns the Store installed in ctx and panics with
// ErrNoProvider when there is none. A missing Store is a wiring bug.
func MustFromContext(ctx context.Context) *Store {
	s, ok := FromContext(ctx)
	if !ok {
		panic(ErrNoProvider)
	}
	return s
}
