package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is a conversation session with generic data storage.
type Session[Data any] struct {
	// ID is stable for the whole session lifecycle.
	ID uuid.UUID `json:"id"`

	// Token is the secret the client presents (32 random bytes, base64url).
	Token string `json:"token"`

	Data Data `json:"data"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// TouchedAt is when ExpiresAt was last extended.
	TouchedAt time.Time `json:"touched_at"`
	DeletedAt time.Time `json:"deleted_at,omitzero"`

	isModified bool
}

// New creates a session with a fresh ID and token, marked as modified.
func New[Data any](data Data, ttl time.Duration) (Session[Data], error) {
	token, err := generateToken()
	if err != nil {
		return Session[Data]{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session[Data]{
		ID:         uuid.New(),
		Token:      token,
		Data:       data,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
		UpdatedAt:  now,
		TouchedAt:  now,
		isModified: true,
	}, nil
}

// SetData replaces the session data.
func (s *Session[Data]) SetData(data Data) {
	s.Data = data
	s.UpdatedAt = time.Now()
	s.isModified = true
}

// Touch extends the expiration to ttl from now. An unmodified session is
// only extended once touchInterval has passed since the previous extension;
// a modified one is saved anyway and always gets the new deadline.
func (s *Session[Data]) Touch(ttl, touchInterval time.Duration) {
	if !s.isModified && time.Since(s.TouchedAt) < touchInterval {
		return
	}
	now := time.Now()
	s.ExpiresAt = now.Add(ttl)
	s.TouchedAt = now
	s.isModified = true
}

// Destroy marks the session for deletion.
func (s *Session[Data]) Destroy() {
	s.DeletedAt = time.Now()
	s.isModified = true
}

func (s Session[Data]) IsDeleted() bool {
	return !s.DeletedAt.IsZero()
}

// IsModified reports whether the session needs saving.
func (s Session[Data]) IsModified() bool {
	return s.isModified
}

func (s Session[Data]) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// generateToken returns 32 random bytes encoded as unpadded base64url.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
