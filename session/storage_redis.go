package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "wash24:session:"

// redisClient is the subset of redis.Cmdable the storage uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

var _ Storage = (*RedisStorage)(nil)

// RedisStorage stores users as JSON under a hashed-token key with a TTL.
type RedisStorage struct {
	client redisClient
	prefix string
}

// NewRedisStorage wraps an existing client.
func NewRedisStorage(client redisClient, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStorage{client: client, prefix: prefix}
}

// OpenRedisStorage parses a redis:// URL, connects and pings. The ping is the
// capability check: an unreachable server is reported, not deferred.
func OpenRedisStorage(ctx context.Context, url string) (*RedisStorage, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: redis url is empty", apperrors.ErrStorageUnavailable)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("[OpenRedisStorage] parse url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}
	return NewRedisStorage(client, defaultRedisPrefix), nil
}

func (s *RedisStorage) key(token string) string {
	return s.prefix + storageKey(token)
}

func (s *RedisStorage) Load(ctx context.Context, token string) (User, error) {
	if token == "" {
		return User{}, apperrors.ErrSessionNotFound
	}
	val, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return User{}, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to get session: %w", err)
	}

	var user User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return User{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return user, nil
}

func (s *RedisStorage) Save(ctx context.Context, token string, user User, ttl time.Duration) error {
	if token == "" {
		return apperrors.ErrInvalidSession
	}
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisStorage) Remove(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisStorage) Durable() bool {
	return true
}

// Close releases the client's connections when it owns any.
func (s *RedisStorage) Close() error {
	if closer, ok := s.client.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
