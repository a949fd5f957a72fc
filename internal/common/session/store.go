// internal/common/session/store.go

// Package session caches the bearer token and profile between runs, the
// stand-in for the original portal's browser storage. The remote API is
// still the authority on whether a token is valid; the cache is cleared
// whenever it says no.
package session

import (
	"context"
	"sync"
	"time"

	"admission-portal/internal/models"
)

// Session is the cached authentication state.
type Session struct {
	Token     string          `json:"token"`
	Profile   *models.Profile `json:"profile,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ErrNotFound is returned when no session is cached.
type ErrNotFound struct{}

func (ErrNotFound) Error() string { return "no cached session" }

// Store defines the session cache lifecycle: created on login, read on
// every start, invalidated on logout or when the portal rejects the token.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// MemoryStore is the in-process implementation, used in tests and when no
// Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	current *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNotFound{}
	}
	copied := *m.current
	return &copied, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.current = &copied
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}
