package lookup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sternrassler/social-lookup/pkg/cache"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

func TestPartition(t *testing.T) {
	tests := []struct {
		name        string
		cached      []users.ID
		ids         []users.ID
		wantHits    []users.ID
		wantMissing []users.ID
	}{
		{
			name:        "empty request",
			cached:      idRange(1, 3),
			ids:         nil,
			wantHits:    nil,
			wantMissing: nil,
		},
		{
			name:        "cold cache",
			ids:         idRange(1, 5),
			wantMissing: idRange(1, 5),
		},
		{
			name:     "warm cache",
			cached:   idRange(1, 5),
			ids:      idRange(1, 5),
			wantHits: idRange(1, 5),
		},
		{
			name:        "mixed keeps input order",
			cached:      []users.ID{2, 4},
			ids:         idRange(1, 5),
			wantHits:    []users.ID{2, 4},
			wantMissing: []users.ID{1, 3, 5},
		},
		{
			name:        "duplicates",
			cached:      []users.ID{7},
			ids:         []users.ID{7, 8, 7, 8, 9},
			wantHits:    []users.ID{7, 7},
			wantMissing: []users.ID{8, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := cache.NewMemoryStore()
			for _, id := range tt.cached {
				store.Put(ctx, id, userFor(id))
			}

			hits, missing := Partition(ctx, tt.ids, store)

			assert.Equal(t, tt.wantHits, hits)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestPartition_DisjointAndExhaustive(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	for i := 1; i <= 1000; i += 3 {
		store.Put(ctx, users.ID(i), userFor(users.ID(i)))
	}

	ids := append(idRange(1, 1000), idRange(500, 700)...)
	hits, missing := Partition(ctx, ids, store)

	hitSet := map[users.ID]bool{}
	for _, id := range hits {
		hitSet[id] = true
	}
	missSet := map[users.ID]bool{}
	for _, id := range missing {
		assert.False(t, missSet[id], "id %d missing twice", id)
		missSet[id] = true
		assert.False(t, hitSet[id], "id %d in both outputs", id)
	}
	for _, id := range ids {
		assert.True(t, hitSet[id] || missSet[id], "id %d dropped", id)
	}
}
