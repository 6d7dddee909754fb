package cache

import (
	"time"

	"github.com/Sternrassler/social-lookup/pkg/users"
)

// CacheEntry is the Redis representation of a cached user record.
type CacheEntry struct {
	// User is the cached record
	User users.User `json:"user"`

	// CachedAt is when the record was written
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the record becomes stale; zero means never
	Expires time.Time `json:"expires,omitempty"`
}

// NewCacheEntry wraps user for storage with the given lifetime.
// A ttl <= 0 produces an entry that never expires.
func NewCacheEntry(user users.User, ttl time.Duration) *CacheEntry {
	now := time.Now()
	entry := &CacheEntry{User: user, CachedAt: now}
	if ttl > 0 {
		entry.Expires = now.Add(ttl)
	}
	return entry
}

// IsExpired returns true if the entry has a deadline that has passed.
func (e *CacheEntry) IsExpired() bool {
	return !e.Expires.IsZero() && time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 for entries that never expire or have already expired.
func (e *CacheEntry) TTL() time.Duration {
	if e.Expires.IsZero() {
		return 0
	}
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
