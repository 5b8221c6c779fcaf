package statusstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	appErr "github.com/xxxsen/msgvault/internal/pkg/errors"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client) Store {
	return &redisStore{client: client, prefix: "msgvault:flag:"}
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", appErr.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *redisStore) Take(ctx context.Context, key string) (string, error) {
	value, err := s.client.GetDel(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		return "", appErr.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
