package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
	bolt "go.etcd.io/bbolt"
)

const boltBucket = "sessions"

var _ Storage = (*BoltStorage)(nil)

type boltRecord struct {
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// BoltStorage is a single-node durable storage in a bbolt file.
type BoltStorage struct {
	db     *bolt.DB
	bucket []byte
	now    func() time.Time
}

// OpenBoltStorage opens (or creates) the bbolt file and its bucket.
func OpenBoltStorage(path string) (*BoltStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: bolt path is empty", apperrors.ErrStorageUnavailable)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStorage{db: db, bucket: []byte(boltBucket), now: time.Now}, nil
}

func (s *BoltStorage) Load(_ context.Context, token string) (User, error) {
	if token == "" {
		return User{}, apperrors.ErrSessionNotFound
	}
	key := []byte(storageKey(token))

	var rec boltRecord
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get(key)
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return User{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !found {
		return User{}, apperrors.ErrSessionNotFound
	}

	if !rec.ExpiresAt.IsZero() && s.now().After(rec.ExpiresAt) {
		_ = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(s.bucket).Delete(key)
		})
		return User{}, apperrors.ErrSessionNotFound
	}
	return rec.User, nil
}

func (s *BoltStorage) Save(_ context.Context, token string, user User, ttl time.Duration) error {
	if token == "" {
		return apperrors.ErrInvalidSession
	}
	rec := boltRecord{User: user}
	if ttl > 0 {
		rec.ExpiresAt = s.now().Add(ttl)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(storageKey(token)), payload)
	})
}

func (s *BoltStorage) Remove(_ context.Context, token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(storageKey(token)))
	})
}

func (s *BoltStorage) Durable() bool {
	return true
}

// Close releases the file lock.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}
