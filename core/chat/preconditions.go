package chat

import "github.com/dmitrymomot/bankchat/core/i18n"

// isAuthenticated holds when the provider login completed. Otherwise it
// aborts the turn with a login-required rejection.
func isAuthenticated(t *Turn) (bool, error) {
	if t.State.IsAuthenticated() {
		return true, nil
	}
	return false, reject(ReasonLoginRequired, t.tr.T("login.required"))
}

// isNotAuthenticated holds when no login completed yet.
func isNotAuthenticated(t *Turn) (bool, error) {
	if !t.State.IsAuthenticated() {
		return true, nil
	}
	return false, reject(ReasonAlreadyLoggedIn, t.tr.T("login.already", i18n.M{"provider": t.State.Auth.Provider.Name}))
}

// hasProvider holds when a provider has been selected, logged in or not.
func hasProvider(t *Turn) (bool, error) {
	if t.State.Auth != nil {
		return true, nil
	}
	return false, reject(ReasonNoProvider, t.tr.T("branches.provider"))
}
