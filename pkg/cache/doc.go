// Package cache provides the shared user record store used by bulk lookups.
//
// Every backend implements Store, a total key/value contract from user id to
// user record:
//
//   - Contains and Get never fail; a backend error reads as "absent"
//   - Put inserts or overwrites; a backend error is logged and dropped
//   - all methods are safe for any number of concurrent callers
//   - a stored record's ID always equals the key it is stored under
//
// # Backends
//
//	// Unbounded in-process store, never evicts (default)
//	store := cache.NewMemoryStore()
//
//	// Bounded LRU with per-entry TTL
//	store := cache.NewLRUStore(100_000, 6*time.Hour)
//
//	// Shared across processes
//	store := cache.NewRedisStore(redisClient, cache.RedisConfig{TTL: 24 * time.Hour})
//
//	// Process-local L1 in front of a shared L2
//	store := cache.NewTieredStore(cache.NewLRUStore(10_000, time.Minute), redisStore)
//
// An evicting backend may report a key absent that an earlier Contains
// reported present; callers treat that exactly like a key never fetched.
//
// # Metrics
//
//   - lookup_cache_hits_total{layer} - Contains hits per backend
//   - lookup_cache_misses_total{layer} - Contains misses per backend
//   - lookup_cache_writes_total{layer} - successful Puts per backend
//   - lookup_cache_errors_total{layer,operation} - backend failures and rejected Puts
package cache
