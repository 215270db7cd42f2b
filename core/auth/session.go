package auth

import (
	"maps"
	"slices"

	"github.com/dmitrymomot/bankchat/core/banking"
)

// Session is the login sub-state for one selected provider.
//
// SessionKey is set if and only if State is LoggedIn. While the login is
// pending, Expected holds the fields the next submission must fill.
type Session struct {
	State    State               `json:"state"`
	Provider banking.Provider    `json:"provider"`
	Pending  map[string]string   `json:"pending,omitempty"`
	Expected []banking.AuthField `json:"expected,omitempty"`
	// Prompt is the contextual text the provider sent with an interaction request.
	Prompt string `json:"prompt,omitempty"`
	// ChallengeKey is the interim key of an unfinished interactive login.
	ChallengeKey string `json:"challenge_key,omitempty"`
	SessionKey   string `json:"session_key,omitempty"`
}

// IsAuthenticated reports whether the login fully succeeded.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.State == LoggedIn && s.SessionKey != ""
}

// CurrentState returns NoProvider for a nil session.
func (s *Session) CurrentState() State {
	if s == nil {
		return NoProvider
	}
	return s.State
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Pending = maps.Clone(s.Pending)
	c.Expected = slices.Clone(s.Expected)
	c.Provider.AuthFields = slices.Clone(s.Provider.AuthFields)
	return &c
}

// missing returns the names of expected fields without a non-empty value in fields.
func (s *Session) missing(fields map[string]string) []string {
	var names []string
	for _, f := range s.Expected {
		if fields[f.Name] == "" {
			names = append(names, f.Name)
		}
	}
	return names
}

// merged returns the pending credentials overlaid with fields.
func (s *Session) merged(fields map[string]string) map[string]string {
	out := make(map[string]string, len(s.Pending)+len(fields))
	maps.Copy(out, s.Pending)
	for k, v := range fields {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
