// Command bankchat serves the banking chat assistant.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/bankchat/app/chatbot"
	"github.com/dmitrymomot/bankchat/core/chat"
	"github.com/dmitrymomot/bankchat/core/config"
	"github.com/dmitrymomot/bankchat/core/daterange"
	"github.com/dmitrymomot/bankchat/core/logger"
	"github.com/dmitrymomot/bankchat/core/server"
	"github.com/dmitrymomot/bankchat/core/session"
	"github.com/dmitrymomot/bankchat/integration/database/redis"
	"github.com/dmitrymomot/bankchat/integration/prometeo"
)

// Config is the process configuration.
type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"bankchat"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	// DateOrder forces DMY or MDY numeric dates for every language when set.
	DateOrder    string `env:"DATE_ORDER"`
	HistoryLimit int    `env:"HISTORY_LIMIT" envDefault:"100"`
	// SessionStore is "memory" or "redis".
	SessionStore string `env:"SESSION_STORE" envDefault:"memory"`

	Session  session.Config
	Server   server.Config
	Prometeo prometeo.Config
	Redis    redis.Config
	Chat     chatbot.Config
}

func main() {
	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("bankchat stopped", logger.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg Config) *slog.Logger {
	preset := logger.WithDevelopment(cfg.AppName)
	if cfg.AppEnv == "production" {
		preset = logger.WithProduction(cfg.AppName)
	}
	return logger.New(
		preset,
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithContextExtractors(chatbot.RequestID),
	)
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	api, err := prometeo.New(cfg.Prometeo, prometeo.WithLogger(log.With(logger.Component("prometeo"))))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []chat.Option{
		chat.WithLogger(log.With(logger.Component("chat"))),
		chat.WithHistoryLimit(cfg.HistoryLimit),
		chat.WithDefaultLanguage(cfg.DefaultLanguage),
		chat.WithMetrics(chat.NewMetrics(reg)),
	}
	if cfg.DateOrder != "" {
		opts = append(opts, chat.WithDateOrder(daterange.ParseOrder(cfg.DateOrder)))
	}
	dispatcher, err := chat.NewDispatcher(api, opts...)
	if err != nil {
		return fmt.Errorf("build dispatcher: %w", err)
	}

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sessions := session.NewManager(store, session.WithConfig(cfg.Session))
	app := chatbot.New(dispatcher, sessions,
		chatbot.WithConfig(cfg.Chat),
		chatbot.WithLogger(log),
		chatbot.WithGatherer(reg),
	)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, app.Router()))
	g.Go(app.Sweeper(ctx))
	return g.Wait()
}

// newStore selects the session store. The returned func releases it.
func newStore(ctx context.Context, cfg Config) (session.Store[chat.SessionState], func(), error) {
	switch strings.ToLower(cfg.SessionStore) {
	case "", "memory":
		return session.NewMemoryStore[chat.SessionState](), func() {}, nil
	case "redis":
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewSessionStore[chat.SessionState](client, cfg.Redis), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
