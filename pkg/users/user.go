// Package users defines the user record resolved by bulk lookups and the
// remote collaborators that produce user ids and records.
package users

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a single account on the remote social graph.
type ID uint64

// String returns the decimal form used on the wire.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses a decimal account id.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse user id %q: %w", s, err)
	}
	return ID(v), nil
}

// ParseIDList parses a comma separated id list such as "12,783214,6253282".
// Empty elements are skipped.
func ParseIDList(s string) ([]ID, error) {
	parts := strings.Split(s, ",")
	ids := make([]ID, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := ParseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// JoinIDs renders ids as the comma separated form accepted by the users API.
func JoinIDs(ids []ID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	return b.String()
}

// User is the metadata of one account as returned by the users API.
// Values are decoded once and passed by value; nothing mutates them afterwards.
type User struct {
	ID              ID     `json:"id"`
	Name            string `json:"name"`
	ScreenName      string `json:"screen_name"`
	FollowersCount  int    `json:"followers_count"`
	FriendsCount    int    `json:"friends_count"`
	StatusesCount   int    `json:"statuses_count"`
	FavouritesCount int    `json:"favourites_count"`
	ListedCount     int    `json:"listed_count"`
}

// IDs returns the ids of the given users in order.
func IDs(list []User) []ID {
	ids := make([]ID, len(list))
	for i, u := range list {
		ids[i] = u.ID
	}
	return ids
}
