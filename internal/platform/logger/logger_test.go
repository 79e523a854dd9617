package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront-labs/storefront-api/internal/config"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
)

func restoreDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetupWithWriter(t *testing.T) {
	tests := []struct {
		level        string
		debugEnabled bool
		infoEnabled  bool
	}{
		{level: "debug", debugEnabled: true, infoEnabled: true},
		{level: "info", infoEnabled: true},
		{level: "WARN"},
		{level: "error"},
		{level: "bogus", infoEnabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			restoreDefault(t)
			buf := &logger.TestLogBuffer{}

			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			ctx := context.Background()
			assert.Equal(t, tt.debugEnabled, l.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoEnabled, l.Enabled(ctx, slog.LevelInfo))
			assert.Same(t, l, slog.Default())
		})
	}
}

func TestSetupWritesJSON(t *testing.T) {
	restoreDefault(t)
	buf := &logger.TestLogBuffer{}

	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, buf)
	require.NoError(t, err)

	l.Info("server starting", slog.Int("port", 8080))

	logger.AssertLogField(t, buf, "msg", "server starting")
	logger.AssertLogField(t, buf, "port", float64(8080))
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.Default()
	custom, _ := logger.GetTestLogger(t)

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{name: "nil context", ctx: nil, expected: fallback},
		{name: "context without logger", ctx: context.Background(), expected: fallback},
		{name: "context with logger", ctx: logger.WithLogger(context.Background(), custom), expected: custom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//nolint:staticcheck // nil context is part of the contract
			assert.Same(t, tt.expected, logger.FromContextOrDefault(tt.ctx, fallback))
		})
	}
}

func TestWithLogger(t *testing.T) {
	custom, buf := logger.GetTestLogger(t)
	ctx := logger.WithLogger(context.Background(), custom)

	logger.FromContext(ctx).Debug("from context")
	logger.AssertLogContains(t, buf, "from context")

	assert.Panics(t, func() {
		logger.WithLogger(context.Background(), nil)
	})
}
