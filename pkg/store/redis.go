package store

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/redis/go-redis/v9"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// redisKey is the key the whole dataset lives under.
const redisKey = "lineageweaver:dataset"

// RedisBackend persists the dataset as one JSON blob in Redis, for
// multi-instance deployments sharing a dataset.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects to the Redis instance at url
// (redis://host:port/db) and verifies the connection.
func NewRedisBackend(ctx context.Context, url string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, backendErr("redis", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, backendErr("redis", err)
	}
	return &RedisBackend{client: client}, nil
}

func (r *RedisBackend) Load(ctx context.Context) (*kin.Dataset, error) {
	data, err := r.client.Get(ctx, redisKey).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, backendErr("redis", err)
	}
	var ds kin.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, backendErr("redis", err)
	}
	return &ds, nil
}

func (r *RedisBackend) Save(ctx context.Context, ds *kin.Dataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return backendErr("redis", err)
	}
	if err := r.client.Set(ctx, redisKey, data, 0).Err(); err != nil {
		return backendErr("redis", err)
	}
	return nil
}

func (r *RedisBackend) Close() error { return r.client.Close() }

func (r *RedisBackend) Name() string { return "redis" }
