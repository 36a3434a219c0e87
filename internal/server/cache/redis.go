package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient captures the subset of redis.Client used by the store.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps entries in redis. The key TTL enforces whichever bound is
// nearer; the absolute deadline travels inside the envelope so a read can
// never push the TTL past it.
type RedisStore struct {
	client RedisClient
	now    func() time.Time
}

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache error: %w", err)
	}

	e, err := decodeEnvelope(data)
	if err != nil {
		return nil, false, fmt.Errorf("cache error: %w", err)
	}

	now := s.now()
	if !now.Before(e.Deadline) {
		// past the absolute deadline; drop eagerly instead of waiting
		// for redis to collect the key
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return nil, false, fmt.Errorf("cache error: %w", err)
		}
		return nil, false, nil
	}

	// re-arm the sliding window
	if err := s.client.Expire(ctx, key, entryTTL(now, e.Deadline, e.Sliding)).Err(); err != nil {
		return nil, false, fmt.Errorf("cache error: %w", err)
	}

	return e.Payload, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, opts EntryOptions) error {
	now := s.now()
	deadline := now.Add(opts.Absolute)

	data, err := encodeEnvelope(value, deadline, opts.Sliding)
	if err != nil {
		return fmt.Errorf("cache error: %w", err)
	}

	if err := s.client.Set(ctx, key, data, entryTTL(now, deadline, opts.Sliding)).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	return nil
}
