package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"touchtrack/logging"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(logging.ContextHandler{
		Handler: slog.NewTextHandler(buf, nil),
	})
}

func TestContextHandlerAddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	ctx := logging.ComponentCtx("replay")
	logger.InfoContext(ctx, "trace decoded")

	assert.Contains(t, buf.String(), "component=replay")
	assert.Contains(t, buf.String(), "trace decoded")
}

func TestAppendCtxAccumulates(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	ctx := logging.ComponentCtx("feed")
	ctx = logging.AppendCtx(ctx, slog.Int("pointer", 2))
	logger.InfoContext(ctx, "sample")

	assert.Contains(t, buf.String(), "component=feed")
	assert.Contains(t, buf.String(), "pointer=2")
}

func TestContextHandlerWithoutAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Info("plain record")

	assert.Contains(t, buf.String(), "plain record")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "info", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "nonsense", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, logging.ParseLevel(tt.input))
		})
	}
}
