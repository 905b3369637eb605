package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects lazily to addr. Keys are namespaced with prefix and
// expire after ttl; a zero ttl keeps them until evicted.
func NewRedisCache(addr, prefix string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	return &RedisCache{
		client: rdb,
		ctx:    context.Background(),
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get treats every error, including an unreachable server, as a miss.
func (r *RedisCache) Get(key string) (string, bool) {
	val, err := r.client.Get(r.ctx, r.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(key string, value string) error {
	return r.client.Set(r.ctx, r.prefix+key, value, r.ttl).Err()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
