package chat

import (
	"context"
	"slices"
	"time"

	"github.com/dmitrymomot/bankchat/core/auth"
	"github.com/dmitrymomot/bankchat/core/banking"
	"github.com/dmitrymomot/bankchat/pkg/normalize"
)

// Senders of history messages.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// HistoryMessage is one line of the conversation transcript.
type HistoryMessage struct {
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Lazy memoizes a remote value. The zero value is empty.
type Lazy[T any] struct {
	Value  T    `json:"value"`
	Loaded bool `json:"loaded"`
}

// Get returns the cached value or fetches and stores it. A failed fetch
// leaves the cache empty.
func (l *Lazy[T]) Get(fetch func() (T, error)) (T, error) {
	if l.Loaded {
		return l.Value, nil
	}
	v, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}
	l.Value, l.Loaded = v, true
	return v, nil
}

// Reset drops the cached value.
func (l *Lazy[T]) Reset() {
	*l = Lazy[T]{}
}

// SessionState is the mutable record of one conversation.
// It is not safe for concurrent use; turns of one session must be serialized.
type SessionState struct {
	// Credential is the caller's API key. Set once at session start.
	Credential string `json:"credential"`
	// Providers is fetched once at session start and never modified.
	Providers []banking.Provider `json:"providers"`
	// Auth is present while a provider login is in progress or completed.
	Auth *auth.Session `json:"auth,omitempty"`

	Accounts Lazy[[]banking.Account] `json:"accounts"`
	Cards    Lazy[[]banking.Card]    `json:"cards"`

	Language string           `json:"language"`
	History  []HistoryMessage `json:"history,omitempty"`
}

// NewSessionState creates the state for a validated credential.
func NewSessionState(credential, lang string, providers []banking.Provider) *SessionState {
	return &SessionState{Credential: credential, Providers: providers, Language: lang}
}

// IsAuthenticated reports whether a provider login fully succeeded.
func (s *SessionState) IsAuthenticated() bool {
	return s.Auth.IsAuthenticated()
}

// SessionKey returns the provider session key, or "" when not logged in.
func (s *SessionState) SessionKey() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.Auth.SessionKey
}

// ProviderByName finds a known provider whose normalized name equals text.
func (s *SessionState) ProviderByName(text string) (banking.Provider, bool) {
	if normalize.Text(text) == "" {
		return banking.Provider{}, false
	}
	for _, p := range s.Providers {
		if normalize.Equal(p.Name, text) {
			return p, true
		}
	}
	return banking.Provider{}, false
}

// ClearCache drops cached accounts and cards.
func (s *SessionState) ClearCache() {
	s.Accounts.Reset()
	s.Cards.Reset()
}

// EndLogin forgets the provider login and everything cached under it.
func (s *SessionState) EndLogin() {
	s.Auth = nil
	s.ClearCache()
}

// LoadAccounts returns the accounts of the logged in user, fetching them once.
func (s *SessionState) LoadAccounts(ctx context.Context, api banking.API) ([]banking.Account, error) {
	return s.Accounts.Get(func() ([]banking.Account, error) {
		return api.Accounts(ctx, s.Credential, s.SessionKey())
	})
}

// LoadCards returns the credit cards of the logged in user, fetching them once.
func (s *SessionState) LoadCards(ctx context.Context, api banking.API) ([]banking.Card, error) {
	return s.Cards.Get(func() ([]banking.Card, error) {
		return api.Cards(ctx, s.Credential, s.SessionKey())
	})
}

// Record appends a message to the history, keeping at most limit entries.
// A non-positive limit keeps everything.
func (s *SessionState) Record(sender, content string, limit int) {
	if content == "" {
		return
	}
	s.History = append(s.History, HistoryMessage{Sender: sender, Content: content, At: time.Now()})
	if limit > 0 && len(s.History) > limit {
		s.History = append([]HistoryMessage(nil), s.History[len(s.History)-limit:]...)
	}
}

// Clone returns a copy that can be mutated without affecting s. Providers
// and cached remote values are shared since they are never modified.
func (s *SessionState) Clone() *SessionState {
	c := *s
	c.Auth = s.Auth.Clone()
	c.History = slices.Clone(s.History)
	return &c
}
