package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/bankchat/core/banking"
	"github.com/dmitrymomot/bankchat/core/logger"
)

// Flow runs login transitions against the remote API.
// It holds no per-session state and is safe for concurrent use.
type Flow struct {
	api    banking.API
	logger *slog.Logger
}

// Option configures a Flow.
type Option func(*Flow)

// WithLogger sets the logger for transition events.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFlow creates a Flow backed by api.
func NewFlow(api banking.API, opts ...Option) *Flow {
	f := &Flow{api: api, logger: logger.Discard()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Select starts a login for the provider code, replacing current if it has
// not completed. The provider's field descriptors are fetched from the
// remote API; the returned session expects its required non-interactive
// fields.
func (f *Flow) Select(ctx context.Context, credential string, current *Session, code string) (*Session, error) {
	next, err := current.CurrentState().Next(EventSelect)
	if err != nil {
		return nil, err
	}

	p, err := f.api.ProviderDetail(ctx, credential, code)
	if err != nil {
		return nil, fmt.Errorf("provider detail %s: %w", code, err)
	}
	if p.Code == "" {
		p.Code = code
	}

	expected := p.RequiredFields()
	if len(expected) == 0 {
		return nil, fmt.Errorf("%w: provider %s declares no login fields", banking.ErrContractViolation, code)
	}

	f.logger.DebugContext(ctx, "provider selected", logger.Provider(p.Code), logger.Count("fields", len(expected)))

	return &Session{
		State:    next,
		Provider: p,
		Pending:  map[string]string{},
		Expected: expected,
	}, nil
}

// Submit sends a credential submission. On success s is updated in place:
// it is either LoggedIn or InteractionRequired with a new Expected set.
//
// ErrWrongCredentials leaves s untouched. ErrProviderUnavailable resets s to
// NoProvider; the caller should discard it. Any other error leaves s
// untouched.
func (f *Flow) Submit(ctx context.Context, credential string, s *Session, fields map[string]string) error {
	if s == nil || !s.State.Awaiting() || len(s.Expected) == 0 {
		return fmt.Errorf("%w: no login in progress", ErrIllegalTransition)
	}
	submitted, err := s.State.Next(EventSubmit)
	if err != nil {
		return err
	}

	fields = trimmed(fields)
	if names := s.missing(fields); len(names) > 0 {
		return &MissingFieldsError{Fields: names}
	}

	creds := s.merged(fields)
	resp, err := f.api.Login(ctx, credential, banking.LoginRequest{
		Provider: s.Provider.Code,
		Key:      s.ChallengeKey,
		Fields:   creds,
	})
	if err != nil {
		return fmt.Errorf("login %s: %w", s.Provider.Code, err)
	}

	log := f.logger.With(logger.Provider(s.Provider.Code), logger.Status(resp.Status))

	switch resp.Status {
	case banking.StatusLoggedIn:
		if resp.Key == "" {
			return fmt.Errorf("%w: logged_in without key", banking.ErrContractViolation)
		}
		next, _ := submitted.Next(EventLoggedIn)
		s.State = next
		s.SessionKey = resp.Key
		// Bank credentials are not kept once the provider issued a key.
		s.Pending = nil
		s.Expected = nil
		s.Prompt = ""
		s.ChallengeKey = ""
		log.InfoContext(ctx, "provider login succeeded")
		return nil

	case banking.StatusInteractionRequired:
		if resp.Field == "" {
			return fmt.Errorf("%w: interaction_required without field", banking.ErrContractViolation)
		}
		next, _ := submitted.Next(EventInteraction)
		s.State = next
		s.Pending = creds
		s.Expected = []banking.AuthField{s.Provider.InteractiveField(resp.Field)}
		s.Prompt = resp.Context
		if resp.Key != "" {
			s.ChallengeKey = resp.Key
		}
		log.DebugContext(ctx, "provider requested interaction", slog.String("field", resp.Field))
		return nil

	case banking.StatusWrongCredentials:
		log.DebugContext(ctx, "provider rejected credentials")
		return ErrWrongCredentials

	case banking.StatusError:
		if resp.Message == banking.MessageUnauthorizedProvider {
			next, _ := submitted.Next(EventUnavailable)
			*s = Session{State: next}
			log.WarnContext(ctx, "provider unavailable")
			return ErrProviderUnavailable
		}
		if resp.Message == banking.MessageKeyNotFound {
			return banking.ErrKeyNotFound
		}
	}

	return fmt.Errorf("%w: login status %q message %q", banking.ErrContractViolation, resp.Status, resp.Message)
}

// Logout ends an authenticated session. Local state is cleared only when
// the remote service acknowledges with logged_out.
func (f *Flow) Logout(ctx context.Context, credential string, s *Session) error {
	if !s.IsAuthenticated() {
		return fmt.Errorf("%w: not logged in", ErrIllegalTransition)
	}
	next, err := s.State.Next(EventLoggedOut)
	if err != nil {
		return err
	}

	resp, err := f.api.Logout(ctx, credential, s.SessionKey)
	if err != nil {
		return fmt.Errorf("logout %s: %w", s.Provider.Code, err)
	}
	if resp.Status != banking.StatusLoggedOut {
		return fmt.Errorf("%w: logout status %q", banking.ErrContractViolation, resp.Status)
	}

	f.logger.InfoContext(ctx, "provider logout", logger.Provider(s.Provider.Code))
	*s = Session{State: next}
	return nil
}

func trimmed(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = strings.TrimSpace(v)
	}
	return out
}
