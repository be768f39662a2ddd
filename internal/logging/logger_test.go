package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.opentelemetry.io/otel/log/noop"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/mailtriage/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("builds from defaults", func(t *testing.T) {
		logger, err := NewLogger(NewDefaultConfig(), nil)
		require.NoError(t, err)
		assert.NotNil(t, logger.Underlying())
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Format = "xml"
		_, err := NewLogger(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "format")
	})

	t.Run("fails when only otel is enabled without a provider", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Output = OutputConfig{OTEL: true}
		_, err := NewLogger(cfg, nil)
		require.Error(t, err)
	})

	t.Run("tees into the otel bridge", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Output.OTEL = true
		logger, err := NewLogger(cfg, noop.NewLoggerProvider())
		require.NoError(t, err)
		logger.Info(context.Background(), "bridged")
	})
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(config.LoggingConfig{Level: "debug", Format: "console"}, "mailtriage-test", false)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "mailtriage-test", cfg.Fields["service"])
	assert.False(t, cfg.Output.OTEL)

	_, err = FromAppConfig(config.LoggingConfig{Level: "loud"}, "", false)
	assert.Error(t, err)

	_, err = FromAppConfig(config.LoggingConfig{Format: "xml"}, "", false)
	assert.Error(t, err)
}

func TestLogger_Levels(t *testing.T) {
	tl := NewTestLogger()
	ctx := context.Background()

	tests := []struct {
		name  string
		log   func(string)
		level zapcore.Level
	}{
		{"trace", func(m string) { tl.Trace(ctx, m) }, TraceLevel},
		{"debug", func(m string) { tl.Debug(ctx, m) }, zapcore.DebugLevel},
		{"info", func(m string) { tl.Info(ctx, m) }, zapcore.InfoLevel},
		{"warn", func(m string) { tl.Warn(ctx, m) }, zapcore.WarnLevel},
		{"error", func(m string) { tl.Error(ctx, m) }, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.log(tt.name + " message")
			tl.AssertLogged(t, tt.level, tt.name+" message")
		})
	}
}

func TestLogger_ContextFields(t *testing.T) {
	tl := NewTestLogger()

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithEmailID(ctx, 42)
	tl.Info(ctx, "email classified", zap.String("category", "Reclamo"))

	tl.AssertField(t, "email classified", "request.id", "req-123")
	tl.AssertField(t, "email classified", "email.id", int64(42))
	tl.AssertField(t, "email classified", "category", "Reclamo")
}

func TestWithRequestID_DropsUnsafeValues(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"valid", "abc_DEF-123", "abc_DEF-123"},
		{"empty", "", ""},
		{"spaces", "abc def", ""},
		{"newline", "abc\ninjected", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithRequestID(context.Background(), tt.id)
			assert.Equal(t, tt.want, RequestIDFromContext(ctx))
		})
	}
}

func TestLevelFromString(t *testing.T) {
	lvl, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, lvl)

	lvl, err = LevelFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = LevelFromString("loud")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	tl := NewTestLogger()
	ctx := WithLogger(context.Background(), tl.Logger)
	FromContext(ctx).Info(ctx, "from context")
	tl.AssertLogged(t, zapcore.InfoLevel, "from context")
}
