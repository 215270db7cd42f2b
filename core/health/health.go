package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/bankchat/core/logger"
)

// Check reports whether one dependency is available.
type Check func(ctx context.Context) error

// DefaultTimeout bounds a readiness probe.
const DefaultTimeout = 5 * time.Second

// Liveness reports that the process is running. It checks no dependency.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	write(w, http.StatusOK, "alive")
}

// Readiness returns a handler running all checks concurrently. It answers
// 503 when any check fails or the probe exceeds DefaultTimeout.
func Readiness(log *slog.Logger, checks ...Check) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), DefaultTimeout)
		defer cancel()

		g, ctx := errgroup.WithContext(ctx)
		for _, check := range checks {
			g.Go(func() error { return check(ctx) })
		}
		if err := g.Wait(); err != nil {
			log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
			write(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		write(w, http.StatusOK, "ready")
	})
}

func write(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
