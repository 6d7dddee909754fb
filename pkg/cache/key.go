package cache

import (
	"strconv"
	"strings"

	"github.com/Sternrassler/social-lookup/pkg/users"
)

// DefaultKeyPrefix namespaces user records in a shared Redis.
const DefaultKeyPrefix = "lookup:user"

// CacheKey identifies one user record in Redis.
type CacheKey struct {
	// Prefix is the namespace (e.g., "lookup:user")
	Prefix string

	// ID is the user id
	ID users.ID
}

// String generates the Redis key.
// Format: prefix:id
//
// Example:
//
//	lookup:user:783214
func (k CacheKey) String() string {
	prefix := strings.Trim(k.Prefix, ":")
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + strconv.FormatUint(uint64(k.ID), 10)
}
