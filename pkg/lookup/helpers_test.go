package lookup

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Sternrassler/social-lookup/pkg/cache"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

var errUpstream = errors.New("upstream unavailable")

func userFor(id users.ID) users.User {
	return users.User{
		ID:             id,
		Name:           fmt.Sprintf("User %d", id),
		ScreenName:     fmt.Sprintf("user%d", id),
		FollowersCount: int(id % 1000),
	}
}

func idRange(from, to int) []users.ID {
	ids := make([]users.ID, 0, to-from+1)
	for i := from; i <= to; i++ {
		ids = append(ids, users.ID(i))
	}
	return ids
}

// fakeFetcher returns one record per requested id and records every call.
type fakeFetcher struct {
	mu    sync.Mutex
	calls [][]users.ID

	// fail decides whether a batch fails; nil means never
	fail func(ids []users.ID) error
	// omit drops ids from otherwise successful responses
	omit map[users.ID]bool
}

func (f *fakeFetcher) FetchBatch(ctx context.Context, ids []users.ID) ([]users.User, error) {
	f.mu.Lock()
	f.calls = append(f.calls, slices.Clone(ids))
	f.mu.Unlock()

	if f.fail != nil {
		if err := f.fail(ids); err != nil {
			return nil, err
		}
	}

	out := make([]users.User, 0, len(ids))
	for _, id := range ids {
		if f.omit[id] {
			continue
		}
		out = append(out, userFor(id))
	}
	return out, nil
}

func (f *fakeFetcher) Calls() [][]users.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func (f *fakeFetcher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// failStartingAt fails the batch whose first id is first.
func failStartingAt(first users.ID) func([]users.ID) error {
	return func(ids []users.ID) error {
		if len(ids) > 0 && ids[0] == first {
			return errUpstream
		}
		return nil
	}
}

func sortedIDs(list []users.User) []users.ID {
	ids := users.IDs(list)
	slices.Sort(ids)
	return ids
}

func batchSizes(calls [][]users.ID) []int {
	sizes := make([]int, len(calls))
	for i, c := range calls {
		sizes[i] = len(c)
	}
	slices.Sort(sizes)
	return sizes
}

// forgetfulStore reports every key as present but returns nothing, like an
// evicting store that dropped the entry between partition and read-back.
type forgetfulStore struct {
	cache.Store
}

var _ cache.Store = forgetfulStore{}

func (forgetfulStore) Contains(context.Context, users.ID) bool { return true }

func (forgetfulStore) Get(context.Context, users.ID) (users.User, bool) {
	return users.User{}, false
}
