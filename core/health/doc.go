// Package health provides liveness and readiness probe handlers.
//
//	r.HandleFunc("/live", health.Liveness)
//	r.Handle("/ready", health.Readiness(log, sessions.Healthcheck))
//
// Checks follow the func(context.Context) error signature, so
// redis.Healthcheck(client) and session.Manager.Healthcheck plug in directly.
package health
