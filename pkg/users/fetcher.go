package users

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=fetcher.go -destination=mocks/fetcher_mock.go -package=mocks

// MaxBatchSize is the largest number of ids the users API accepts per call.
const MaxBatchSize = 100

// Relation selects which id list of an account to resolve.
type Relation string

const (
	// Followers lists the accounts following the subject.
	Followers Relation = "followers"

	// Friends lists the accounts the subject follows.
	Friends Relation = "friends"
)

// ParseRelation validates a relation name.
func ParseRelation(s string) (Relation, error) {
	switch Relation(s) {
	case Followers, Friends:
		return Relation(s), nil
	default:
		return "", fmt.Errorf("unknown relation %q", s)
	}
}

// BatchFetcher performs one remote call for at most MaxBatchSize ids.
// Implementations return an error instead of a partial list when the
// transport fails or the payload cannot be decoded. Ids unknown to the
// remote side are simply omitted from the result.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, ids []ID) ([]User, error)
}

// BatchFetcherFunc adapts a function to BatchFetcher.
type BatchFetcherFunc func(ctx context.Context, ids []ID) ([]User, error)

// FetchBatch calls f(ctx, ids).
func (f BatchFetcherFunc) FetchBatch(ctx context.Context, ids []ID) ([]User, error) {
	return f(ctx, ids)
}

// IDLister resolves an account handle to one of its related id lists in a
// single unbatched call.
type IDLister interface {
	FetchIDs(ctx context.Context, screenName string, relation Relation) ([]ID, error)
}
