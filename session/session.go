package session

import (
	"context"
	"sync"

	apperrors "github.com/jrsteele09/wash24-admin/internal/errors"
)

// User is the authenticated admin as returned by the backend login endpoint.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session pairs a user with their bearer token. User is nil exactly when
// Token is empty.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// IsAuthenticated reports whether both halves of the session are present.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// Listener is notified with the new state after every change.
type Listener func(Session)

// Service is the credential store seen by handlers and the API client.
type Service interface {
	Get() Session
	Set(ctx context.Context, user User, token string) error
	Clear(ctx context.Context) error
	OnChange(listener Listener) (unsubscribe func())
}

// Mirror is a persistent copy of the session kept outside process memory.
type Mirror interface {
	Write(ctx context.Context, s Session) error
	Erase(ctx context.Context, s Session) error
}

var _ Service = (*Store)(nil)

// Store holds the in-memory session and keeps its mirrors in step.
type Store struct {
	mu        sync.RWMutex
	current   Session
	mirrors   []Mirror
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty store. Mirrors are written in the given order
// and erased in reverse.
func NewStore(mirrors ...Mirror) *Store {
	return &Store{
		mirrors:   mirrors,
		listeners: make(map[int]Listener),
	}
}

// Get returns a copy of the current session.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.current)
}

// Set replaces user and token together. If any mirror fails, mirrors already
// written are erased again and the in-memory session is left as it was.
func (s *Store) Set(ctx context.Context, user User, token string) error {
	if token == "" || user.ID == "" {
		return apperrors.ErrInvalidSession
	}
	next := Session{User: &user, Token: token}

	s.mu.Lock()
	for i, m := range s.mirrors {
		if err := m.Write(ctx, next); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = s.mirrors[j].Erase(ctx, next)
			}
			s.mu.Unlock()
			return apperrors.Wrapf(err, "[Store Set] mirror %d", i)
		}
	}
	s.current = next
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, copySession(next))
	return nil
}

// Clear empties the session and erases every mirror. Clearing an empty
// store erases the mirrors again but does not notify listeners.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	prev := s.current
	s.current = Session{}

	var errs []error
	for i := len(s.mirrors) - 1; i >= 0; i-- {
		if err := s.mirrors[i].Erase(ctx, prev); err != nil {
			errs = append(errs, err)
		}
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if prev.IsAuthenticated() {
		notify(listeners, Session{})
	}
	return apperrors.Join(errs...)
}

// Restore rehydrates the in-memory session from durable storage without
// touching the mirrors. An unknown token leaves the store empty.
func (s *Store) Restore(ctx context.Context, token string, storage Storage) error {
	if token == "" {
		return nil
	}
	user, err := storage.Load(ctx, token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return nil
		}
		return apperrors.Wrapf(err, "[Store Restore]")
	}
	if user.ID == "" {
		return nil
	}

	s.mu.Lock()
	s.current = Session{User: &user, Token: token}
	s.mu.Unlock()
	return nil
}

// OnChange registers a listener and returns a func that removes it.
func (s *Store) OnChange(listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func notify(listeners []Listener, s Session) {
	for _, l := range listeners {
		l(s)
	}
}

func copySession(s Session) Session {
	if s.User == nil {
		return s
	}
	u := *s.User
	return Session{User: &u, Token: s.Token}
}
