// Package redis connects to Redis and keeps conversation sessions in it.
//
// Connect validates the URL, pings with exponential backoff and returns a
// ready client. Healthcheck wraps a ping for readiness probes.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := redis.NewSessionStore[chat.SessionState](client, cfg)
//	sessions := session.NewManager(store)
//
// SessionStore stores each session as a JSON document with a token index,
// both expiring with the session, so Redis evicts finished conversations by
// itself.
//
// Errors can be checked with errors.Is:
//
//   - ErrEmptyURL: no connection URL configured
//   - ErrInvalidURL: malformed redis:// or rediss:// URL
//   - ErrNotReady: no successful ping within the retry budget
//   - ErrHealthcheckFailed: ping failed
//   - ErrCorruptSession: stored JSON does not decode
package redis
