package auth

import "fmt"

// State is a step of the provider login handshake.
type State uint8

const (
	NoProvider State = iota
	ProviderSelected
	CredentialsSubmitted
	InteractionRequired
	LoggedIn
)

var stateNames = [...]string{
	NoProvider:           "no_provider",
	ProviderSelected:     "provider_selected",
	CredentialsSubmitted: "credentials_submitted",
	InteractionRequired:  "interaction_required",
	LoggedIn:             "logged_in",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", s)
}

// MarshalText encodes the state by name so stored sessions stay readable.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("auth: unknown state %q", b)
}

// Awaiting reports whether the state expects a credential submission.
func (s State) Awaiting() bool {
	return s == ProviderSelected || s == InteractionRequired
}

// Event drives a transition.
type Event uint8

const (
	EventSelect Event = iota
	EventSubmit
	EventLoggedIn
	EventInteraction
	EventUnavailable
	EventLoggedOut
)

// transitions is the complete table of legal moves. CredentialsSubmitted
// only exists while the login call is in flight; a rejected submission
// leaves the session in the state it came from.
var transitions = map[State]map[Event]State{
	NoProvider: {
		EventSelect: ProviderSelected,
	},
	ProviderSelected: {
		EventSelect: ProviderSelected,
		EventSubmit: CredentialsSubmitted,
	},
	InteractionRequired: {
		EventSelect: ProviderSelected,
		EventSubmit: CredentialsSubmitted,
	},
	CredentialsSubmitted: {
		EventLoggedIn:    LoggedIn,
		EventInteraction: InteractionRequired,
		EventUnavailable: NoProvider,
	},
	LoggedIn: {
		EventLoggedOut: NoProvider,
	},
}

// Next returns the state reached from s on e.
func (s State) Next(e Event) (State, error) {
	next, ok := transitions[s][e]
	if !ok {
		return s, fmt.Errorf("%w: event %d in state %s", ErrIllegalTransition, e, s)
	}
	return next, nil
}
