package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sibtech_backend/internal/feature/demo/domain/entity"
	"sibtech_backend/internal/feature/demo/usecase"
)

// header is the first list element; it keeps an empty demo's key alive.
const header = `{"demo":true}`

// RedisStore keeps each demo as a Redis list at {prefix}:{id}.
// Element 0 is a header, entries follow in insertion order. Every write refreshes the TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ usecase.Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:%s", s.prefix, id)
}

func (s *RedisStore) Create(ctx context.Context, id string) error {
	key := s.key(id)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("demo %s already exists", id)
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, header)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Append(ctx context.Context, id string, e entity.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal demo entry: %w", err)
	}
	key := s.key(id)
	// RPUSHX only appends to an existing key
	n, err := s.client.RPushX(ctx, key, data).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrDemoNotFound
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

func (s *RedisStore) List(ctx context.Context, id string) ([]entity.Entry, error) {
	key := s.key(id)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, usecase.ErrDemoNotFound
	}
	raw, err := s.client.LRange(ctx, key, 1, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]entity.Entry, 0, len(raw))
	for _, r := range raw {
		var e entity.Entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal demo entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return usecase.ErrDemoNotFound
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
