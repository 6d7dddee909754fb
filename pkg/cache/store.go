package cache

import (
	"context"
	"errors"

	"github.com/Sternrassler/social-lookup/pkg/users"
)

var (
	// ErrKeyMismatch indicates a Put whose record id differs from its key.
	ErrKeyMismatch = errors.New("record id does not match cache key")

	// ErrInvalidEntry indicates a stored entry could not be decoded.
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store maps user ids to user records.
type Store interface {
	// Contains reports whether id is currently cached.
	Contains(ctx context.Context, id users.ID) bool

	// Get returns the cached record for id.
	Get(ctx context.Context, id users.ID) (users.User, bool)

	// Put stores user under id, replacing any previous record.
	Put(ctx context.Context, id users.ID, user users.User)
}

// Sizer is implemented by stores that can report their entry count.
type Sizer interface {
	Len(ctx context.Context) int
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the store's backend when it has one.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// checkKey enforces the id-matches-key invariant for Put.
func checkKey(layer string, id users.ID, user users.User) error {
	if user.ID != id {
		CacheErrors.WithLabelValues(layer, "put").Inc()
		return ErrKeyMismatch
	}
	return nil
}
