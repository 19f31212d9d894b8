package store

import (
	"context"
	"errors"
)

// ErrNoSession is returned when the store is read from a context that was
// never given one.
var ErrNoSession = errors.New("store: no session in context; wrap the caller with store.WithSession")

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the store attached by WithSession.
func FromContext(ctx context.Context) (*Store, error) {
	if ctx == nil {
		return nil, ErrNoSession
	}
	s, ok := ctx.Value(sessionKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

// MustFromContext is like FromContext but panics with ErrNoSession.
func MustFromContext(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
