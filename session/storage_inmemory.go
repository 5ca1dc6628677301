package session

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
)

var _ Storage = (*InMemoryStorage)(nil)

type memoryRecord struct {
	user      User
	expiresAt time.Time
}

// InMemoryStorage keeps records in process memory. It is the fallback when
// no durable backend can be opened.
type InMemoryStorage struct {
	mu      sync.RWMutex
	records map[string]memoryRecord // hashed token -> record
	now     func() time.Time
}

// NewInMemoryStorage creates an empty in-memory storage
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

func (m *InMemoryStorage) Load(_ context.Context, token string) (User, error) {
	if token == "" {
		return User{}, apperrors.ErrSessionNotFound
	}

	m.mu.RLock()
	rec, ok := m.records[storageKey(token)]
	m.mu.RUnlock()
	if !ok {
		return User{}, apperrors.ErrSessionNotFound
	}

	if !rec.expiresAt.IsZero() && m.now().After(rec.expiresAt) {
		m.mu.Lock()
		delete(m.records, storageKey(token))
		m.mu.Unlock()
		return User{}, apperrors.ErrSessionNotFound
	}
	return rec.user, nil
}

func (m *InMemoryStorage) Save(_ context.Context, token string, user User, ttl time.Duration) error {
	if token == "" {
		return apperrors.ErrInvalidSession
	}

	rec := memoryRecord{user: user}
	if ttl > 0 {
		rec.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[storageKey(token)] = rec
	return nil
}

// Remove deletes a record. Missing records are not an error.
func (m *InMemoryStorage) Remove(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, storageKey(token))
	return nil
}

func (m *InMemoryStorage) Durable() bool {
	return false
}

// DeleteExpired drops records whose TTL has passed.
func (m *InMemoryStorage) DeleteExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, rec := range m.records {
		if !rec.expiresAt.IsZero() && now.After(rec.expiresAt) {
			delete(m.records, key)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired records every interval until ctx is done.
func (m *InMemoryStorage) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.DeleteExpired()
		}
	}
}
