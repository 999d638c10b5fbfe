package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"business-english-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
)

// KVStore is a Redis-backed app.KVStore. Keys live under a prefix; a ttl of
// zero keeps them forever, which is what bookmark persistence wants.
type KVStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewKVStore(client *redis.Client, ttl time.Duration) *KVStore {
	return &KVStore{
		client: client,
		prefix: "quiz:kv:",
		ttl:    ttl,
	}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) key(key string) string {
	return s.prefix + key
}
