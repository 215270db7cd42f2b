package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/bankchat/core/chat"
	"github.com/dmitrymomot/bankchat/core/health"
	"github.com/dmitrymomot/bankchat/core/logger"
	"github.com/dmitrymomot/bankchat/core/session"
)

// TokenHeader carries the conversation session token.
const TokenHeader = "X-Session-Token"

var errRateLimited = errors.New("chatbot: too many turns")

// App serves the chat over HTTP and websockets.
type App struct {
	dispatcher *chat.Dispatcher
	sessions   *session.Manager[chat.SessionState]
	gates      *gates
	upgrader   websocket.Upgrader
	gatherer   prometheus.Gatherer
	cfg        Config
	logger     *slog.Logger
}

// Option configures an App.
type Option func(*App)

func WithConfig(cfg Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithGatherer exposes g on /metrics. Without it /metrics serves the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(a *App) {
		if g != nil {
			a.gatherer = g
		}
	}
}

// New creates the app.
func New(d *chat.Dispatcher, sessions *session.Manager[chat.SessionState], opts ...Option) *App {
	a := &App{
		dispatcher: d,
		sessions:   sessions,
		gatherer:   prometheus.DefaultGatherer,
		cfg:        defaultConfig(),
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cfg.MaxBodyBytes <= 0 {
		a.cfg.MaxBodyBytes = defaultConfig().MaxBodyBytes
	}
	a.gates = newGates(a.cfg.TurnRate, a.cfg.TurnBurst)
	a.upgrader = websocket.Upgrader{CheckOrigin: a.checkOrigin}
	return a
}

// Router returns the HTTP handler of the app.
func (a *App) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, a.logging, a.recoverer, a.limitBody)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session", a.startSession).Methods(http.MethodPost)
	api.HandleFunc("/session", a.endSession).Methods(http.MethodDelete)
	api.HandleFunc("/guest", a.startGuest).Methods(http.MethodPost)
	api.HandleFunc("/messages", a.postMessage).Methods(http.MethodPost)
	api.HandleFunc("/provider-login", a.providerLogin).Methods(http.MethodPost)
	api.HandleFunc("/history", a.history).Methods(http.MethodGet)

	r.HandleFunc("/ws", a.serveWS).Methods(http.MethodGet)
	r.HandleFunc("/live", health.Liveness).Methods(http.MethodGet)
	r.Handle("/ready", health.Readiness(a.logger, a.sessions.Healthcheck)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return r
}

// Sweeper returns an errgroup func that periodically drops idle turn
// gates and expired sessions until ctx is canceled.
func (a *App) Sweeper(ctx context.Context) func() error {
	return func() error {
		interval := a.cfg.SweepInterval
		if interval <= 0 {
			interval = defaultConfig().SweepInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				a.sweep(ctx, interval)
			}
		}
	}
}

func (a *App) sweep(ctx context.Context, idle time.Duration) {
	gates := a.gates.sweep(idle)
	sessions, err := a.sessions.CleanupExpired(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "session cleanup failed", logger.Error(err))
		return
	}
	a.logger.DebugContext(ctx, "sweep done", logger.Count("gates", gates), slog.Int64("sessions", sessions))
}

// turn runs fn on a copy of the session state under the session's gate and
// persists the copy only when fn succeeds.
func (a *App) turn(ctx context.Context, token string, fn func(*chat.SessionState) (chat.Result, error)) (chat.Result, *chat.SessionState, error) {
	g, ok := a.gates.acquire(token)
	if !ok {
		return chat.Result{}, nil, errRateLimited
	}
	defer g.mu.Unlock()

	sess, err := a.sessions.GetByToken(ctx, token)
	if err != nil {
		return chat.Result{}, nil, err
	}

	state := sess.Data.Clone()
	res, err := fn(state)
	if err != nil {
		return chat.Result{}, state, err
	}

	sess.SetData(*state)
	if err := a.sessions.Store(ctx, sess); err != nil {
		return chat.Result{}, state, err
	}
	return res, state, nil
}

func (a *App) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range a.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}
