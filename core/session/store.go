package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists sessions. Implementations must be safe for concurrent use
// and return copies, never shared references to stored sessions.
type Store[Data any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Session[Data], error)
	GetByToken(ctx context.Context, token string) (*Session[Data], error)
	Save(ctx context.Context, session *Session[Data]) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes all expired sessions and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// MemoryStore keeps sessions in process memory.
type MemoryStore[Data any] struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]Session[Data]
	byToken map[string]uuid.UUID
}

var _ Store[struct{}] = (*MemoryStore[struct{}])(nil)

func NewMemoryStore[Data any]() *MemoryStore[Data] {
	return &MemoryStore[Data]{
		byID:    make(map[uuid.UUID]Session[Data]),
		byToken: make(map[string]uuid.UUID),
	}
}

func (m *MemoryStore[Data]) GetByID(_ context.Context, id uuid.UUID) (*Session[Data], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore[Data]) GetByToken(ctx context.Context, token string) (*Session[Data], error) {
	m.mu.RLock()
	id, ok := m.byToken[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *MemoryStore[Data]) Save(_ context.Context, s *Session[Data]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.byID[s.ID]; ok && prev.Token != s.Token {
		delete(m.byToken, prev.Token)
	}
	saved := *s
	saved.isModified = false
	m.byID[s.ID] = saved
	m.byToken[s.Token] = s.ID
	return nil
}

func (m *MemoryStore[Data]) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byToken, s.Token)
	return nil
}

func (m *MemoryStore[Data]) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var n int64
	for id, s := range m.byID {
		if now.After(s.ExpiresAt) {
			delete(m.byID, id)
			delete(m.byToken, s.Token)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore[Data]) Ping(context.Context) error {
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore[Data]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
