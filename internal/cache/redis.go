package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gezgin/placewise/internal/models"
)

// RedisCache is the production Cache backed by Redis.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache parses the Redis URL, verifies the connection, and
// returns a ready cache.
func NewRedisCache(redisURL, prefix string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &RedisCache{client: client, prefix: prefix, ttl: ttl}, nil
}

func (r *RedisCache) assetKey(placeID string) string {
	return r.prefix + "asset:" + placeID
}

func (r *RedisCache) searchKey(key string) string {
	return r.prefix + "search:" + key
}

// GetAsset returns the cached asset, or nil, nil on a miss.
func (r *RedisCache) GetAsset(ctx context.Context, placeID string) (*models.Asset, error) {
	data, err := r.client.Get(ctx, r.assetKey(placeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var asset models.Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("unmarshaling cached asset: %w", err)
	}
	return &asset, nil
}

func (r *RedisCache) SetAsset(ctx context.Context, placeID string, asset *models.Asset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("marshaling asset for cache: %w", err)
	}
	return r.client.Set(ctx, r.assetKey(placeID), data, r.ttl).Err()
}

func (r *RedisCache) DeleteAsset(ctx context.Context, placeID string) error {
	return r.client.Del(ctx, r.assetKey(placeID)).Err()
}

// GetSearch returns the cached search payload, or nil, nil on a miss.
func (r *RedisCache) GetSearch(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.searchKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (r *RedisCache) SetSearch(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, r.searchKey(key), payload, r.ttl).Err()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
