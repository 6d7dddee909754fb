package lookup

import (
	"fmt"
	"time"

	"github.com/Sternrassler/social-lookup/pkg/users"
)

// FetchError is the failure of one remote batch.
type FetchError struct {
	Batch int
	IDs   []users.ID
	Err   error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("batch %d (%d ids): %v", e.Batch, len(e.IDs), e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// BatchResult is the outcome of one dispatched batch.
type BatchResult struct {
	Index    int
	IDs      []users.ID
	Users    []users.User
	Err      error // *FetchError when the batch failed
	Duration time.Duration
}

// OK reports whether the batch fetch succeeded.
func (r BatchResult) OK() bool {
	return r.Err == nil
}

// Resolution is what the orchestrator produced for a set of missing ids.
type Resolution struct {
	// Users holds every record fetched, across all successful batches
	Users []users.User

	// Batches holds one result per dispatched batch, in dispatch order
	Batches []BatchResult
}

// Failed returns the batches whose fetch failed.
func (r *Resolution) Failed() []BatchResult {
	var failed []BatchResult
	for _, b := range r.Batches {
		if !b.OK() {
			failed = append(failed, b)
		}
	}
	return failed
}

// Report is the detailed outcome of a lookup.
type Report struct {
	// Users is the lookup result: fetched records followed by cached ones
	Users []users.User

	// Requested is the number of ids passed in, duplicates included
	Requested int

	// CacheHits are the ids served from the cache, duplicates included
	CacheHits []users.ID

	// Missing are the distinct ids sent to the users API, including cache
	// hits that were evicted before they could be read back
	Missing []users.ID

	// Batches holds the per-batch outcomes of the remote fetch
	Batches []BatchResult

	// Unresolved are the distinct requested ids absent from Users
	Unresolved []users.ID
}

// Failed returns the batches whose fetch failed.
func (r *Report) Failed() []BatchResult {
	return (&Resolution{Batches: r.Batches}).Failed()
}

// unresolved lists the distinct ids of requested that found is missing.
func unresolved(requested []users.ID, found []users.User) []users.ID {
	have := make(map[users.ID]struct{}, len(found))
	for _, u := range found {
		have[u.ID] = struct{}{}
	}

	var out []users.ID
	for _, id := range requested {
		if _, ok := have[id]; ok {
			continue
		}
		have[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// distinctIDs drops repeated ids, keeping first occurrences in order.
func distinctIDs(ids []users.ID) []users.ID {
	return unresolved(ids, nil)
}
