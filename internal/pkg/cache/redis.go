package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps a redis client used for short-lived lookaside caching.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts. A cache miss must never
// cost more than a fraction of the store call it fronts.
func NewRedis(addr, password string, db int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Get returns the cached value for key, or ("", false) on miss or any error.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	if r == nil || r.Client == nil {
		return "", false
	}
	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores key with a TTL. Errors are ignored; the cache is best effort.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if r == nil || r.Client == nil {
		return
	}
	r.Client.Set(ctx, key, value, ttl)
}

// Delete drops a key so the next read goes to the store.
func (r *Redis) Delete(ctx context.Context, key string) {
	if r == nil || r.Client == nil {
		return
	}
	r.Client.Del(ctx, key)
}
