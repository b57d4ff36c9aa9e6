package logger_test

import (
	"context"
	"testing"

	"fraudrisk/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	for _, env := range []string{logger.DevelopmentEnvironment, logger.ProductionEnvironment} {
		t.Run(env, func(t *testing.T) {
			require.NotPanics(t, func() { logger.Setup(env, "") })
			require.NotNil(t, logger.Get(context.Background()))
		})
	}
}

func TestSetup_LevelOverride(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment, "warn")
	l := logger.Get(context.Background())

	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))

	// unknown levels keep the preset
	logger.Setup(logger.DevelopmentEnvironment, "loud")
	require.True(t, logger.Get(context.Background()).Core().Enabled(zapcore.DebugLevel))
}

func TestGetAndWithLogger(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment, "")
	ctx := context.Background()
	require.NotNil(t, logger.Get(ctx))

	custom := zap.NewExample()
	require.Same(t, custom, logger.Get(logger.WithLogger(ctx, custom)))
}

func TestWithFields_PropagatesToEntries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("domain", "example.com"), zap.Int("row", 3))
	logger.Warn(ctx, "row dropped")
	logger.Info(ctx, "build finished")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "row dropped", entries[0].Message)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "example.com", entries[0].ContextMap()["domain"])
	require.EqualValues(t, 3, entries[1].ContextMap()["row"])
}

func TestLoggingFunctions(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment, "debug")
	ctx := context.Background()

	require.NotPanics(t, func() {
		logger.Debug(ctx, "debug message")
		logger.Info(ctx, "info message")
		logger.Warn(ctx, "warn message")
		logger.Error(ctx, "error message")
		logger.Sync(ctx)
	})
}
