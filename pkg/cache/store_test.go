package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/social-lookup/pkg/users"
)

func testUser(id users.ID) users.User {
	return users.User{
		ID:             id,
		Name:           fmt.Sprintf("User %d", id),
		ScreenName:     fmt.Sprintf("user%d", id),
		FollowersCount: int(id) * 10,
	}
}

// storeContract runs the behaviour every Store backend must share.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("miss on empty store", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		assert.False(t, s.Contains(ctx, 1))
		_, ok := s.Get(ctx, 1)
		assert.False(t, ok)
	})

	t.Run("put then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		s.Put(ctx, 42, testUser(42))

		assert.True(t, s.Contains(ctx, 42))
		got, ok := s.Get(ctx, 42)
		require.True(t, ok)
		assert.Equal(t, testUser(42), got)
	})

	t.Run("overwrite keeps last write", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := testUser(5)
		second := testUser(5)
		second.FollowersCount = 999

		s.Put(ctx, 5, first)
		s.Put(ctx, 5, second)

		got, ok := s.Get(ctx, 5)
		require.True(t, ok)
		assert.Equal(t, 999, got.FollowersCount)
	})

	t.Run("mismatched id is rejected", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		s.Put(ctx, 1, testUser(2))

		assert.False(t, s.Contains(ctx, 1))
		assert.False(t, s.Contains(ctx, 2))
	})

	t.Run("concurrent writers and readers", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const writers = 16
		const keys = 200

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 1; i <= keys; i++ {
					id := users.ID(i)
					s.Put(ctx, id, testUser(id))
					if u, ok := s.Get(ctx, id); ok && u.ID != id {
						t.Errorf("Get(%d) returned record for %d", id, u.ID)
					}
					s.Contains(ctx, id)
				}
			}()
		}
		wg.Wait()

		for i := 1; i <= keys; i++ {
			id := users.ID(i)
			u, ok := s.Get(ctx, id)
			require.True(t, ok, "id %d lost", id)
			assert.Equal(t, testUser(id), u)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestLRUStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store { return NewLRUStore(0, 0) })
}

func TestTieredStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		return NewTieredStore(NewLRUStore(10, time.Minute), NewMemoryStore())
	})
}

func TestLRUStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := NewLRUStore(2, 0)
	ctx := context.Background()

	s.Put(ctx, 1, testUser(1))
	s.Put(ctx, 2, testUser(2))
	_, _ = s.Get(ctx, 1) // 2 becomes least recently used
	s.Put(ctx, 3, testUser(3))

	assert.True(t, s.Contains(ctx, 1))
	assert.False(t, s.Contains(ctx, 2))
	assert.True(t, s.Contains(ctx, 3))
	assert.Equal(t, 2, s.Len(ctx))
}

func TestLRUStore_Expires(t *testing.T) {
	s := NewLRUStore(0, 50*time.Millisecond)
	ctx := context.Background()

	s.Put(ctx, 1, testUser(1))
	require.True(t, s.Contains(ctx, 1))

	assert.Eventually(t, func() bool {
		return !s.Contains(ctx, 1)
	}, time.Second, 5*time.Millisecond)
	_, ok := s.Get(ctx, 1)
	assert.False(t, ok, "an expired record must not be readable once Contains denies it")
}

func TestStore_HitMetricsCountContainsOnly(t *testing.T) {
	ctx := context.Background()
	hits := func(layer string) float64 { return promtest.ToFloat64(CacheHits.WithLabelValues(layer)) }
	misses := func(layer string) float64 { return promtest.ToFloat64(CacheMisses.WithLabelValues(layer)) }

	tests := []struct {
		name  string
		layer string
		store Store
	}{
		{"memory", LayerMemory, NewMemoryStore()},
		{"lru", LayerLRU, NewLRUStore(10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.store.Put(ctx, 1, testUser(1))
			hitsBefore, missesBefore := hits(tt.layer), misses(tt.layer)

			require.True(t, tt.store.Contains(ctx, 1))
			_, ok := tt.store.Get(ctx, 1)
			require.True(t, ok)
			require.False(t, tt.store.Contains(ctx, 2))
			_, _ = tt.store.Get(ctx, 2)

			assert.Equal(t, 1.0, hits(tt.layer)-hitsBefore)
			assert.Equal(t, 1.0, misses(tt.layer)-missesBefore)
		})
	}
}

func TestTieredStore_PopulatesL1FromL2(t *testing.T) {
	l1 := NewLRUStore(10, time.Minute)
	l2 := NewMemoryStore()
	s := NewTieredStore(l1, l2)
	ctx := context.Background()

	l2.Put(ctx, 9, testUser(9))
	require.False(t, l1.Contains(ctx, 9))

	got, ok := s.Get(ctx, 9)
	require.True(t, ok)
	assert.Equal(t, testUser(9), got)
	assert.True(t, l1.Contains(ctx, 9), "L2 hit should populate L1")
}

func TestTieredStore_PanicsOnNilLayer(t *testing.T) {
	assert.Panics(t, func() { NewTieredStore(nil, NewMemoryStore()) })
}

func TestPing_WithoutBackend(t *testing.T) {
	assert.NoError(t, Ping(context.Background(), NewMemoryStore()))
}
