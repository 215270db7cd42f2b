package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/bankchat/core/session"
)

// SessionStore is a session.Store kept in Redis. Each session is a JSON
// document under "<prefix>:session:<id>" with a token index under
// "<prefix>:token:<token>"; both expire with the session.
type SessionStore[Data any] struct {
	client    redis.UniversalClient
	prefix    string
	scanBatch int64
}

var _ session.Store[struct{}] = (*SessionStore[struct{}])(nil)

// NewSessionStore creates a session store on client using cfg's key prefix
// and scan batch size.
func NewSessionStore[Data any](client redis.UniversalClient, cfg Config) *SessionStore[Data] {
	prefix := strings.TrimSuffix(cfg.KeyPrefix, ":")
	if prefix == "" {
		prefix = "bankchat"
	}
	return &SessionStore[Data]{
		client:    client,
		prefix:    prefix,
		scanBatch: int64(max(cfg.ScanBatchSize, 10)),
	}
}

func (s *SessionStore[Data]) GetByID(ctx context.Context, id uuid.UUID) (*session.Session[Data], error) {
	raw, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get session: %w", err)
	}
	return decode[Data](raw)
}

func (s *SessionStore[Data]) GetByToken(ctx context.Context, token string) (*session.Session[Data], error) {
	id, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get token: %w", err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("redis: token index holds %q: %w", id, err)
	}
	return s.GetByID(ctx, uid)
}

// Save writes the session and its token index. A rotated token drops the
// previous index entry.
func (s *SessionStore[Data]) Save(ctx context.Context, sess *session.Session[Data]) error {
	ttl := ttlOf(sess.ExpiresAt, time.Now())
	if ttl <= 0 {
		return errors.Join(session.ErrSaveSession, session.ErrExpired)
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return errors.Join(session.ErrSaveSession, err)
	}

	prev, err := s.GetByID(ctx, sess.ID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		return errors.Join(session.ErrSaveSession, err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if prev != nil && prev.Token != sess.Token {
			p.Del(ctx, s.tokenKey(prev.Token))
		}
		p.Set(ctx, s.sessionKey(sess.ID), raw, ttl)
		p.Set(ctx, s.tokenKey(sess.Token), sess.ID.String(), ttl)
		return nil
	})
	if err != nil {
		return errors.Join(session.ErrSaveSession, err)
	}
	return nil
}

func (s *SessionStore[Data]) Delete(ctx context.Context, id uuid.UUID) error {
	sess, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.sessionKey(id), s.tokenKey(sess.Token)).Err(); err != nil {
		return errors.Join(session.ErrDeleteSession, err)
	}
	return nil
}

// DeleteExpired removes sessions whose stored expiry has passed while their
// keys are still present.
func (s *SessionStore[Data]) DeleteExpired(ctx context.Context) (int64, error) {
	var (
		cursor  uint64
		removed int64
		now     = time.Now()
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+":session:*", s.scanBatch).Result()
		if err != nil {
			return removed, fmt.Errorf("redis: scan sessions: %w", err)
		}
		for _, key := range keys {
			raw, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			sess, err := decode[Data](raw)
			if err != nil || !now.After(sess.ExpiresAt) {
				continue
			}
			if err := s.client.Del(ctx, key, s.tokenKey(sess.Token)).Err(); err != nil {
				return removed, errors.Join(session.ErrDeleteSession, err)
			}
			removed++
		}
		if cursor = next; cursor == 0 {
			return removed, nil
		}
	}
}

func (s *SessionStore[Data]) Ping(ctx context.Context) error {
	return Healthcheck(s.client)(ctx)
}

func (s *SessionStore[Data]) sessionKey(id uuid.UUID) string {
	return s.prefix + ":session:" + id.String()
}

func (s *SessionStore[Data]) tokenKey(token string) string {
	return s.prefix + ":token:" + token
}

func decode[Data any](raw []byte) (*session.Session[Data], error) {
	var sess session.Session[Data]
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, errors.Join(ErrCorruptSession, err)
	}
	return &sess, nil
}

// ttlOf returns the Redis expiry for a session expiring at expiresAt.
func ttlOf(expiresAt, now time.Time) time.Duration {
	return max(expiresAt.Sub(now), 0)
}
