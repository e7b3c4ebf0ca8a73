package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisClient caches unfiltered tour listings to keep the hot list endpoint
// off the database.
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(cfg Config) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: rdb,
		ttl:    cfg.TTL,
	}, nil
}

func tourListKey(page, pageSize int) string {
	return fmt.Sprintf("tours:list:%d:%d", page, pageSize)
}

// GetTourListRaw returns the cached JSON for a tour-list page, avoiding a
// decode/encode round trip on cache hits.
func (c *RedisClient) GetTourListRaw(ctx context.Context, page, pageSize int) ([]byte, error) {
	data, err := c.client.Get(ctx, tourListKey(page, pageSize)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetTourList stores a tour-list page; failures are returned but callers
// treat the cache as best effort.
func (c *RedisClient) SetTourList(ctx context.Context, page, pageSize int, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return c.client.Set(ctx, tourListKey(page, pageSize), data, c.ttl).Err()
}

// InvalidateTourLists drops every cached tour-list page after a catalog write.
func (c *RedisClient) InvalidateTourLists(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "tours:list:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}
