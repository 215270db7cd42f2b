package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bankchat/core/logger"
)

type ctxKey struct{}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("production writes json with service attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("bankchat"), logger.WithOutput(&buf))
		log.Debug("hidden")
		log.Info("turn handled", logger.Rule("accounts"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "turn handled", rec["msg"])
		assert.Equal(t, "bankchat", rec["service"])
		assert.Equal(t, "accounts", rec["rule"])
	})

	t.Run("development logs debug as text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("bankchat"), logger.WithOutput(&buf))
		log.Debug("rule skipped")
		assert.Contains(t, buf.String(), "rule skipped")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("injects context values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithJSONFormatter(),
			logger.WithOutput(&buf),
			logger.WithContextValue("session_id", ctxKey{}),
		)
		ctx := context.WithValue(context.Background(), ctxKey{}, "s-1")
		log.InfoContext(ctx, "hello")
		log.With("k", "v").InfoContext(context.Background(), "no session")

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		require.Len(t, lines, 2)
		assert.Contains(t, string(lines[0]), `"session_id":"s-1"`)
		assert.NotContains(t, string(lines[1]), "session_id")
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())
	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.String("provider", "acme"), logger.Provider("acme"))
	assert.Equal(t, slog.String("session_id", "abc"), logger.SessionID("abc"))
	assert.Equal(t, slog.String("status", "logged_in"), logger.Status("logged_in"))
	assert.Equal(t, slog.String("rule", "logout"), logger.Rule("logout"))

	for _, attr := range []slog.Attr{logger.Provider(""), logger.SessionID(""), logger.Status(""), logger.Rule("")} {
		assert.True(t, attr.Equal(slog.Attr{}))
	}
}

func TestTiming(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Second, logger.Latency(time.Second).Value.Duration())
	assert.GreaterOrEqual(t, logger.Elapsed(time.Now().Add(-time.Minute)).Value.Duration(), time.Minute)
}
