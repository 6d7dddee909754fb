// Package lookup resolves arbitrary-size sets of user ids through a shared
// cache and a batched, concurrent fetch from the users API.
//
// The users API accepts at most 100 ids per call. A lookup:
//   - partitions the requested ids into cache hits and misses
//   - splits the misses into batches of Config.BatchSize
//   - fetches every batch concurrently (optionally bounded by MaxConcurrency)
//   - writes fetched records to the cache as each batch completes
//   - reads the hits back and returns fresh records followed by cached ones
//
// A failed batch never fails the lookup: its ids are simply missing from the
// result. Callers that need to know which ids were not resolved use
// LookupReport instead of Lookup.
//
// Example usage:
//
//	store := cache.NewMemoryStore()
//	engine, err := lookup.NewEngine(store, apiClient, lookup.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	found := engine.Lookup(ctx, ids)
package lookup
