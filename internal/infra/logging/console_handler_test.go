package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	context_ "github.com/mkrupp/homecase-registration/internal/infra/context"
)

func newTestLogger(out *bytes.Buffer, level slog.Level, filter string) Logger {
	h := &ConsoleHandler{
		Output:    out,
		Level:     level,
		PkgLevels: LoggerConfig{Filter: filter}.getPkgLevels(),
	}

	return slog.New(NewTracingHandler(h))
}

func TestConsoleHandler_Format(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	log := newTestLogger(&out, LevelDebug, "").With("logger", "svc.regsvc")
	log.Info("user added", Group("db", "path", "users.db"))

	line := out.String()
	require.Contains(t, line, "[INFO] user added |")
	require.Contains(t, line, " logger=svc.regsvc")
	require.Contains(t, line, " db.path=users.db")
	require.NotContains(t, line, "\033[")
}

func TestConsoleHandler_Color(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	log := slog.New(&ConsoleHandler{Output: &out, Level: LevelDebug, Color: true})
	log.Error("boom")

	require.Contains(t, out.String(), ansiCodeRed+"[ERROR]"+ansiCodeReset)
}

func TestConsoleHandler_PkgLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter string
		logger string
		want   bool
	}{
		{name: "no filter", filter: "", logger: "repo.user", want: true},
		{name: "exact match suppresses", filter: "repo.user:error", logger: "repo.user", want: false},
		{name: "parent match suppresses", filter: "repo:error", logger: "repo.user.sqlite", want: false},
		{name: "most specific wins", filter: "repo:error,repo.user:debug", logger: "repo.user", want: true},
		{name: "other package unaffected", filter: "repo:error", logger: "svc.regsvc", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			newTestLogger(&out, LevelDebug, tt.filter).With("logger", tt.logger).Info("hello")

			require.Equal(t, tt.want, out.Len() > 0)
		})
	}
}

func TestConsoleHandler_PkgLevelLowersMinimum(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	base := newTestLogger(&out, LevelWarn, "repo.user:debug")
	require.True(t, base.Handler().Enabled(context.Background(), LevelDebug))

	base.With("logger", "repo.user.sqlite_user_repository").Debug("repo detail")
	base.With("logger", "svc.regsvc").Debug("service detail")
	base.With("logger", "svc.regsvc").Warn("service warning")

	require.Contains(t, out.String(), "repo detail")
	require.NotContains(t, out.String(), "service detail")
	require.Contains(t, out.String(), "service warning")
}

func TestConsoleHandler_Level(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	log := newTestLogger(&out, LevelWarn, "")
	log.Info("hidden")
	log.Warn("shown")

	require.NotContains(t, out.String(), "hidden")
	require.Contains(t, out.String(), "shown")
}

func TestTracingHandler_AddsContextValues(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	ctx := context_.WithTraceID(context.Background(), "trace-1")
	ctx = context_.WithUsername(ctx, "alice")

	newTestLogger(&out, LevelDebug, "").InfoContext(ctx, "login")

	require.Contains(t, out.String(), "trace.id=trace-1")
	require.Contains(t, out.String(), "user.username=alice")
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, LevelDebug, parseLogLevel(" DEBUG ", LevelInfo))
	require.Equal(t, LevelError, parseLogLevel("error", LevelInfo))
	require.Equal(t, LevelInfo, parseLogLevel("verbose", LevelInfo))
}
