package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing rueidis client (e.g. rueidis/mock).
func NewStoreForTest(client rueidis.Client) *Store {
	return &Store{client: client}
}
