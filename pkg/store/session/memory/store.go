// Package memory implements an in-process session store for tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"filevault/pkg/store/session"
)

type entry struct {
	userID    string
	expiresAt time.Time
}

// MemorySessionStore implements session.Store on a process-local map.
// Expired entries are dropped lazily on Resolve.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]entry

	// now is swappable so tests can step the clock.
	now func() time.Time
}

// NewMemorySessionStore creates an empty store. A non-positive ttl
// falls back to session.DefaultTTL.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	return &MemorySessionStore{
		ttl:      ttl,
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Create(ctx context.Context, userID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = entry{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}

	return token, nil
}

func (s *MemorySessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return "", session.ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, token)
		return "", session.ErrNotFound
	}

	return e.userID, nil
}

func (s *MemorySessionStore) Revoke(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *MemorySessionStore) Healthcheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemorySessionStore) Close(ctx context.Context) error {
	return ctx.Err()
}
