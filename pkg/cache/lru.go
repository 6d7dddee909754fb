package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

// LRUStore is a bounded in-process store. The least recently used record is
// evicted once maxEntries is exceeded and every record expires ttl after it
// was written.
type LRUStore struct {
	cache  *expirable.LRU[users.ID, users.User]
	logger zerolog.Logger
}

// NewLRUStore creates a bounded store. maxEntries <= 0 disables the size bound
// and ttl <= 0 disables expiry.
func NewLRUStore(maxEntries int, ttl time.Duration) *LRUStore {
	if maxEntries < 0 {
		maxEntries = 0
	}
	if ttl < 0 {
		ttl = 0
	}
	return &LRUStore{
		cache:  expirable.NewLRU[users.ID, users.User](maxEntries, onEvict, ttl),
		logger: logging.NewLogger("cache").With().Str("layer", LayerLRU).Logger(),
	}
}

func onEvict(users.ID, users.User) {
	lruEvictions.Inc()
}

// Contains reports whether id holds a live record without touching its
// recency. Expired records read as absent.
func (s *LRUStore) Contains(_ context.Context, id users.ID) bool {
	_, ok := s.cache.Peek(id)
	observe(LayerLRU, ok)
	return ok
}

// Get returns the record cached for id and marks it recently used.
func (s *LRUStore) Get(_ context.Context, id users.ID) (users.User, bool) {
	return s.cache.Get(id)
}

// Put stores user under id.
func (s *LRUStore) Put(_ context.Context, id users.ID, user users.User) {
	if err := checkKey(LayerLRU, id, user); err != nil {
		s.logger.Warn().Err(err).Uint64("key", uint64(id)).Uint64("user_id", uint64(user.ID)).Msg("Rejected cache write")
		return
	}
	s.cache.Add(id, user)
	CacheWrites.WithLabelValues(LayerLRU).Inc()
}

// Len returns the number of live records.
func (s *LRUStore) Len(_ context.Context) int {
	return s.cache.Len()
}
