package token

import (
	"context"
	"time"

	"github.com/hadmin/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store 令牌存储，键为 token:{session_id}，值为签发的完整令牌
type Store struct {
	client *redis.Client
}

// NewStore 创建令牌存储
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Put 写入令牌，ttl与令牌有效期一致
func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.StoreUnavailable(err)
	}
	return nil
}

// Get 读取令牌，不存在时返回 ("", false, nil)
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, errors.StoreUnavailable(err)
	}
	return value, true, nil
}

// Delete 删除令牌
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errors.StoreUnavailable(err)
	}
	return nil
}

// Scan 遍历匹配的键，回调返回错误时中止
func (s *Store) Scan(ctx context.Context, match string, fn func(key string) error) error {
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return errors.StoreUnavailable(err)
		}
		for _, key := range keys {
			if err := fn(key); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
