package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const routeCachePrefix = "roadsnap:"

// RouteCacheRepo stores road-snapped paths keyed by the hash of their
// input coordinates. The routing service is a public collaborator, so a
// warm cache keeps map loads off it for repeat views.
type RouteCacheRepo struct {
	client *goredis.Client
}

func NewRouteCacheRepo(client *goredis.Client) *RouteCacheRepo {
	return &RouteCacheRepo{client: client}
}

func (r *RouteCacheRepo) Get(ctx context.Context, key string) ([][2]float64, bool, error) {
	if r.client == nil {
		return nil, false, nil
	}

	raw, err := r.client.Get(ctx, routeCachePrefix+key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached route: %w", err)
	}

	var path [][2]float64
	if err := json.Unmarshal(raw, &path); err != nil {
		return nil, false, fmt.Errorf("decode cached route: %w", err)
	}

	return path, true, nil
}

func (r *RouteCacheRepo) Set(ctx context.Context, key string, path [][2]float64, ttl time.Duration) error {
	if r.client == nil || len(path) == 0 {
		return nil
	}

	raw, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("encode route for cache: %w", err)
	}

	if err := r.client.Set(ctx, routeCachePrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("store cached route: %w", err)
	}

	return nil
}
