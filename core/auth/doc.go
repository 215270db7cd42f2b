// Package auth implements the multi-turn provider login handshake.
//
// A login moves through an explicit state machine:
//
//	NoProvider -> ProviderSelected -> CredentialsSubmitted -> LoggedIn
//	                                        |      ^
//	                                        v      |
//	                                  InteractionRequired
//
// Every operation consults the transition table before touching the
// Session, so a submission without pending expected fields, or a logout
// before the login completed, fails with ErrIllegalTransition instead of
// reaching the remote API.
//
// Session mutations are applied only after the remote call succeeded. A
// failing call leaves the Session exactly as it was.
//
//	flow := auth.NewFlow(api, auth.WithLogger(log))
//
//	sess, err := flow.Select(ctx, credential, nil, "acme")
//	// prompt the user for sess.Expected
//
//	err = flow.Submit(ctx, credential, sess, map[string]string{"username": "u", "password": "p"})
//	switch {
//	case errors.Is(err, auth.ErrWrongCredentials):
//	case errors.Is(err, auth.ErrProviderUnavailable):
//	case err == nil && sess.State == auth.InteractionRequired:
//		// prompt for sess.Expected again
//	case err == nil && sess.IsAuthenticated():
//	}
package auth
