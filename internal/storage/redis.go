package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/and161185/school-portal/internal/errs"
)

// Redis keeps values as plain redis strings under "<namespace>:<key>", without TTL.
type Redis struct {
	rdb       *redis.Client
	namespace string
}

// NewRedis constructs redis-backed storage; namespace separates clients sharing one redis.
func NewRedis(rdb *redis.Client, namespace string) *Redis {
	if namespace == "" {
		namespace = "school-portal"
	}
	return &Redis{rdb: rdb, namespace: namespace}
}

func (r *Redis) key(k string) string { return r.namespace + ":" + k }

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errs.ErrNotFound
	}
	return v, err
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.key(key), value, 0).Err()
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, r.key(key)).Err()
}
