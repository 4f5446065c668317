package sharedcache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 100

type RedisStore struct {
	client  *redis.Client
	scalars *cache.Cache[string]
}

func NewRedisStore(client *redis.Client) *RedisStore {
	redisStore := redisstore.NewRedis(client)

	return &RedisStore{
		client:  client,
		scalars: cache.New[string](redisStore),
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.scalars.Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.NotFound{}) || errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", err
	}

	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.scalars.Set(ctx, key, value, store.WithExpiration(ttl))
}

func (s *RedisStore) Merge(ctx context.Context, key string, values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(values))
	for field, value := range values {
		fields[field] = value
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, ttl)
		return nil
	})

	return err
}

func (s *RedisStore) HashGet(ctx context.Context, key string, field string) (string, error) {
	value, err := s.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	return value, err
}

func (s *RedisStore) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrNotFound
	}

	return values, nil
}

func (s *RedisStore) SetAdd(ctx context.Context, key string, members []string, ttl time.Duration) error {
	if len(members) == 0 {
		return nil
	}

	args := make([]interface{}, len(members))
	for i, member := range members {
		args[i] = member
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, args...)
		pipe.Expire(ctx, key, ttl)
		return nil
	})

	return err
}

func (s *RedisStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	return s.client.SMembers(ctx, key).Result()
}

func (s *RedisStore) SetIntersect(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	return s.client.SInter(ctx, keys...).Result()
}

func (s *RedisStore) Apply(ctx context.Context, writes []Write, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, write := range writes {
			switch write.kind {
			case setWrite:
				if len(write.members) == 0 {
					continue
				}
				args := make([]interface{}, len(write.members))
				for i, member := range write.members {
					args[i] = member
				}
				pipe.SAdd(ctx, write.key, args...)
				pipe.Expire(ctx, write.key, ttl)
			case valueWrite:
				pipe.Set(ctx, write.key, write.value, ttl)
			}
		}
		return nil
	})

	return err
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	iterator := s.client.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatchSize).Iterator()

	var batch []string
	for iterator.Next(ctx) {
		batch = append(batch, iterator.Val())

		if len(batch) >= scanBatchSize {
			if err := s.Delete(ctx, batch...); err != nil {
				return err
			}
			batch = nil
		}
	}
	if err := iterator.Err(); err != nil {
		return err
	}

	return s.Delete(ctx, batch...)
}

// escapeGlob quotes the characters Redis MATCH patterns treat specially
func escapeGlob(value string) string {
	var builder strings.Builder

	for _, r := range value {
		switch r {
		case '*', '?', '[', ']', '\\':
			builder.WriteRune('\\')
		}
		builder.WriteRune(r)
	}

	return builder.String()
}
