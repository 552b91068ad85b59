package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/pipeline"
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// Redis server address.
	Address string
	// Password required when connecting to the Redis server.
	Password string
	// DB to connect to.
	DB int
}

// DefaultRedisOptions points at a local Redis.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Address: "localhost:6379",
	}
}

// RedisStore keeps JSON-encoded results in Redis so several server
// instances can share them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Address, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Put stores res with the configured TTL.
func (s *RedisStore) Put(ctx context.Context, res *pipeline.Result) error {
	if res == nil || res.ID == "" {
		return errors.New("result without ID")
	}
	data, err := encode(res)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, Key(res.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storing result %s: %w", res.ID, err)
	}
	return nil
}

// Get returns the result stored under id.
func (s *RedisStore) Get(ctx context.Context, id string) (*pipeline.Result, error) {
	data, err := s.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrMissingSections
	}
	if err != nil {
		return nil, fmt.Errorf("loading result %s: %w", id, err)
	}
	return decode(id, data)
}

// Delete removes the result stored under id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("deleting result %s: %w", id, err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
