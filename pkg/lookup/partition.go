package lookup

import (
	"context"

	"github.com/Sternrassler/social-lookup/pkg/cache"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

// Partition splits ids into those already cached and those to fetch.
// Each distinct id is checked once; every id lands in exactly one output.
// Duplicate hits are kept so they read back once per occurrence, while
// missing ids are de-duplicated so no id is fetched twice in one lookup.
func Partition(ctx context.Context, ids []users.ID, store cache.Store) (hits, missing []users.ID) {
	cached := make(map[users.ID]bool, len(ids))
	for _, id := range ids {
		isHit, seen := cached[id]
		if !seen {
			isHit = store.Contains(ctx, id)
			cached[id] = isHit
			if !isHit {
				missing = append(missing, id)
			}
		}
		if isHit {
			hits = append(hits, id)
		}
	}
	return hits, missing
}
