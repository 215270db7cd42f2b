// Package cascade implements an ordered, precondition-gated pattern matcher
// that selects exactly one handler for a piece of normalized text.
//
// A Cascade is an ordered list of rules. Each rule holds a compiled trigger
// pattern, an optional precondition over a caller-supplied context value and
// a handler. Evaluation walks the rules in order:
//
//  1. The trigger is searched (not fully matched) against the text.
//  2. When it matches and the precondition is absent or holds, the handler is
//     invoked with the trigger's named capture groups and its result is
//     returned. No further rules are evaluated.
//  3. A precondition that returns an error stops evaluation and the error is
//     returned as is.
//  4. When nothing matches, Evaluate reports no match and the caller supplies
//     its own fallback.
//
// Basic usage:
//
//	type State struct{ LoggedIn bool }
//
//	loggedIn := func(s *State) (bool, error) {
//		if !s.LoggedIn {
//			return false, ErrLoginRequired
//		}
//		return true, nil
//	}
//
//	c := cascade.New(
//		cascade.Rule[*State, string]{
//			Name:    "accounts",
//			Trigger: regexp.MustCompile(`\baccounts?\b`),
//			When:    loggedIn,
//			Handle: func(ctx context.Context, s *State, g cascade.Groups) (string, error) {
//				return "your accounts", nil
//			},
//		},
//	)
//
//	reply, ok, err := c.Evaluate(ctx, state, "show my accounts")
//
// Handlers receive every named group of their trigger; groups that did not
// take part in the match are present with an empty value, so handlers never
// need to guard against missing keys.
package cascade
