package cache

import (
	"context"

	"github.com/Sternrassler/social-lookup/pkg/users"
)

// TieredStore puts a fast process-local L1 in front of a shared L2.
// Reads check L1 first and populate it on an L2 hit; writes go to both.
type TieredStore struct {
	l1 Store
	l2 Store
}

// NewTieredStore creates a two-level store.
func NewTieredStore(l1, l2 Store) *TieredStore {
	if l1 == nil || l2 == nil {
		panic("tiered store requires both layers")
	}
	return &TieredStore{l1: l1, l2: l2}
}

// Contains reports whether either layer holds id. L2 is only consulted on
// an L1 miss.
func (t *TieredStore) Contains(ctx context.Context, id users.ID) bool {
	if t.l1.Contains(ctx, id) {
		return true
	}
	return t.l2.Contains(ctx, id)
}

// Get returns the record from L1, falling back to L2. An L2 hit is copied
// into L1.
func (t *TieredStore) Get(ctx context.Context, id users.ID) (users.User, bool) {
	if u, ok := t.l1.Get(ctx, id); ok {
		return u, true
	}
	u, ok := t.l2.Get(ctx, id)
	if !ok {
		return users.User{}, false
	}
	t.l1.Put(ctx, id, u)
	return u, true
}

// Put writes user to both layers.
func (t *TieredStore) Put(ctx context.Context, id users.ID, user users.User) {
	t.l1.Put(ctx, id, user)
	t.l2.Put(ctx, id, user)
}

// Len reports the L2 size, which is the authoritative layer.
func (t *TieredStore) Len(ctx context.Context) int {
	if s, ok := t.l2.(Sizer); ok {
		return s.Len(ctx)
	}
	return 0
}

// Ping checks both layers, L1 first.
func (t *TieredStore) Ping(ctx context.Context) error {
	if err := Ping(ctx, t.l1); err != nil {
		return err
	}
	return Ping(ctx, t.l2)
}
