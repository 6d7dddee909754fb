// Package batch splits key sequences into bounded, order-preserving groups.
package batch

import (
	"fmt"
	"iter"
)

// Split partitions items into consecutive groups of at most size elements.
// Every group holds exactly size items except possibly the last. The groups
// alias items and are capacity-capped, so appending to one never bleeds into
// the next. An empty input yields no groups. Split panics if size <= 0.
func Split[T any](items []T, size int) [][]T {
	mustPositive(size)
	if len(items) == 0 {
		return nil
	}

	groups := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		groups = append(groups, items[start:end:end])
	}
	return groups
}

// Chunks is the lazy form of Split for sequences that are not materialised.
// seq is enumerated exactly once; each yielded group is a fresh slice.
// Chunks panics if size <= 0.
func Chunks[T any](seq iter.Seq[T], size int) iter.Seq[[]T] {
	mustPositive(size)
	return func(yield func([]T) bool) {
		group := make([]T, 0, size)
		for item := range seq {
			group = append(group, item)
			if len(group) == size {
				if !yield(group) {
					return
				}
				group = make([]T, 0, size)
			}
		}
		if len(group) > 0 {
			yield(group)
		}
	}
}

// Count returns how many groups Split would produce for n items.
func Count(n, size int) int {
	mustPositive(size)
	return (n + size - 1) / size
}

func mustPositive(size int) {
	if size <= 0 {
		panic(fmt.Sprintf("batch: size must be positive, got %d", size))
	}
}
