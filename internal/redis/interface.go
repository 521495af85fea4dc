package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the save backend depends on. Anything
// satisfying redis.UniversalClient works, including clients pointed at
// miniredis in tests.
type Client interface {
	redis.UniversalClient
}
