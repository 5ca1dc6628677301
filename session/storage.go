package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	"github.com/rs/zerolog/log"
)

// Storage persists the user behind a token outside request lifetime.
// Load returns ErrSessionNotFound for unknown or expired tokens.
type Storage interface {
	Load(ctx context.Context, token string) (User, error)
	Save(ctx context.Context, token string, user User, ttl time.Duration) error
	Remove(ctx context.Context, token string) error
	// Durable reports whether records survive a process restart.
	Durable() bool
}

// Storage kinds accepted by OpenStorage
const (
	StorageAuto   = "auto"
	StorageRedis  = "redis"
	StorageBolt   = "bolt"
	StorageMemory = "memory"
)

// StorageOptions selects and configures the storage backend.
type StorageOptions struct {
	Kind     string
	RedisURL string
	BoltPath string
}

// OpenStorage picks a backend at startup. An explicit kind must open or the
// call fails. "auto" tries Redis, then bolt, and settles on memory.
func OpenStorage(ctx context.Context, opts StorageOptions) (Storage, error) {
	switch opts.Kind {
	case StorageRedis:
		return OpenRedisStorage(ctx, opts.RedisURL)
	case StorageBolt:
		return OpenBoltStorage(opts.BoltPath)
	case StorageMemory:
		return NewInMemoryStorage(), nil
	case StorageAuto, "":
		if opts.RedisURL != "" {
			s, err := OpenRedisStorage(ctx, opts.RedisURL)
			if err == nil {
				return s, nil
			}
			log.Warn().Err(err).Msg("Redis session storage unavailable, falling back")
		}
		if opts.BoltPath != "" {
			s, err := OpenBoltStorage(opts.BoltPath)
			if err == nil {
				return s, nil
			}
			log.Warn().Err(err).Str("path", opts.BoltPath).Msg("Bolt session storage unavailable, falling back")
		}
		log.Warn().Msg("Using in-memory session storage; sessions will not survive a restart")
		return NewInMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownStorage, opts.Kind)
	}
}

// storageKey hashes the token so raw bearer tokens never become keys.
func storageKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type storageMirror struct {
	storage Storage
	ttl     time.Duration
}

// StorageMirror adapts a Storage to the Mirror interface.
func StorageMirror(storage Storage, ttl time.Duration) Mirror {
	return storageMirror{storage: storage, ttl: ttl}
}

func (m storageMirror) Write(ctx context.Context, s Session) error {
	if !s.IsAuthenticated() {
		return apperrors.ErrInvalidSession
	}
	return m.storage.Save(ctx, s.Token, *s.User, m.ttl)
}

func (m storageMirror) Erase(ctx context.Context, s Session) error {
	if s.Token == "" {
		return nil
	}
	return m.storage.Remove(ctx, s.Token)
}
