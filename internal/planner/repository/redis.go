package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"planner/internal/planner/models"
	"planner/internal/planner/serializer"
)

const DefaultDraftTTL = 24 * time.Hour

// RedisCache keeps drafts under drawing:<id>, refreshed with a TTL on every
// save.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	slog.Info("redis connected", "addr", addr)
	return NewRedisCacheFromClient(client, ttl), nil
}

func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func draftKey(id string) string {
	return "drawing:" + id
}

func (r *RedisCache) Save(ctx context.Context, id string, doc *models.DrawingData) error {
	data, err := serializer.Marshal(doc)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, draftKey(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

func (r *RedisCache) Load(ctx context.Context, id string) (*models.DrawingData, error) {
	data, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	return serializer.Deserialize(data)
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
