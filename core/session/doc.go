// Package session provides generic, token-addressed conversation sessions.
//
// A Session[Data] carries application-defined data plus lifecycle
// timestamps. Sessions are persisted through a Store[Data]; MemoryStore is
// provided for single-instance deployments and tests, and
// integration/database/redis implements a shared store.
//
//	store := session.NewMemoryStore[ChatState]()
//	manager := session.NewManager[ChatState](store,
//		session.WithTTL(24*time.Hour),
//		session.WithTouchInterval(5*time.Minute),
//	)
//
//	sess, err := manager.Create(ctx, initialState)
//	// hand sess.Token to the client
//
//	sess, err = manager.GetByToken(ctx, token)
//	sess.SetData(updated)
//	err = manager.Store(ctx, sess)
//
// Sessions use value semantics: GetByToken returns a copy and Store persists
// the copy it is given. Callers that mutate Data concurrently for the same
// token must serialize those mutations themselves.
//
// Every stored change extends the expiration, so a conversation in use
// never expires mid-flight. Unchanged sessions are extended at most once per
// touch interval, so reads do not turn into writes on every request.
package session
