package cache

import (
	"context"

	"github.com/maypok86/otter/v2"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

// MemoryStore is an unbounded in-process store. Entries live for the lifetime
// of the process.
type MemoryStore struct {
	cache  *otter.Cache[users.ID, users.User]
	logger zerolog.Logger
}

// NewMemoryStore creates an empty unbounded store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache:  otter.Must(&otter.Options[users.ID, users.User]{}),
		logger: logging.NewLogger("cache").With().Str("layer", LayerMemory).Logger(),
	}
}

// Contains reports whether id is cached.
func (s *MemoryStore) Contains(_ context.Context, id users.ID) bool {
	_, ok := s.cache.GetIfPresent(id)
	observe(LayerMemory, ok)
	return ok
}

// Get returns the record cached for id.
func (s *MemoryStore) Get(_ context.Context, id users.ID) (users.User, bool) {
	return s.cache.GetIfPresent(id)
}

// Put stores user under id.
func (s *MemoryStore) Put(_ context.Context, id users.ID, user users.User) {
	if err := checkKey(LayerMemory, id, user); err != nil {
		s.logger.Warn().Err(err).Uint64("key", uint64(id)).Uint64("user_id", uint64(user.ID)).Msg("Rejected cache write")
		return
	}
	s.cache.Set(id, user)
	CacheWrites.WithLabelValues(LayerMemory).Inc()
}

// Len returns the approximate number of cached records.
func (s *MemoryStore) Len(_ context.Context) int {
	return s.cache.EstimatedSize()
}
