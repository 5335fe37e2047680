// Package cache provides the Redis-backed volatile tier: active order
// snapshots and the cached menu listing.
package cache

import (
	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// New creates a Redis client from a connection URL. It does not dial: the
// client connects lazily, so a Redis outage at startup leaves the service
// running in degraded mode (reads fail open, order creation fails closed).
// Readiness checks surface the outage via Ping.
func New(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	return redis.NewClient(opts), nil
}
