package session

import (
	"context"
	"errors"
	"time"
)

// Manager handles session creation, retrieval, expiration and persistence.
type Manager[Data any] struct {
	store         Store[Data]
	ttl           time.Duration
	touchInterval time.Duration
}

// NewManager creates a manager backed by store.
func NewManager[Data any](store Store[Data], opts ...Option) *Manager[Data] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager[Data]{
		store:         store,
		ttl:           cfg.TTL,
		touchInterval: cfg.TouchInterval,
	}
}

// Create starts and saves a new session holding data.
func (m *Manager[Data]) Create(ctx context.Context, data Data) (Session[Data], error) {
	sess, err := New(data, m.ttl)
	if err != nil {
		return Session[Data]{}, err
	}
	if err := m.store.Save(ctx, &sess); err != nil {
		return Session[Data]{}, errors.Join(ErrSaveSession, err)
	}
	return sess, nil
}

// GetByToken retrieves a session by token and validates expiration.
func (m *Manager[Data]) GetByToken(ctx context.Context, token string) (Session[Data], error) {
	if token == "" {
		return Session[Data]{}, ErrNotFound
	}
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session[Data]{}, err
	}
	if sess.IsExpired() {
		return Session[Data]{}, ErrExpired
	}
	return *sess, nil
}

// Store persists sess according to its state: deleted sessions are removed,
// modified ones saved with a fresh expiration. Unmodified sessions are
// extended and saved once per touch interval.
func (m *Manager[Data]) Store(ctx context.Context, sess Session[Data]) error {
	if sess.IsDeleted() {
		if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Join(ErrDeleteSession, err)
		}
		return nil
	}

	sess.Touch(m.ttl, m.touchInterval)

	if sess.IsModified() {
		if err := m.store.Save(ctx, &sess); err != nil {
			return errors.Join(ErrSaveSession, err)
		}
	}
	return nil
}

// Delete removes the session identified by token. Unknown tokens are not an error.
func (m *Manager[Data]) Delete(ctx context.Context, token string) error {
	sess, err := m.store.GetByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	sess.Destroy()
	return m.Store(ctx, *sess)
}

// CleanupExpired removes expired sessions from the store.
func (m *Manager[Data]) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx)
}

// Healthcheck reports whether the backing store is reachable.
func (m *Manager[Data]) Healthcheck(ctx context.Context) error {
	return m.store.Ping(ctx)
}
