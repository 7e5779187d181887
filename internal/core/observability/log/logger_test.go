package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLogger_FieldsReachZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	logger.With(String("actor", "player")).Info("collision",
		Int("tick", 3),
		Float64("t", 0.5),
		Bool("blocked", true),
		Duration("elapsed", time.Millisecond),
		Uint64("fingerprint", 42),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "collision", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "player", fields["actor"])
	assert.Equal(t, int64(3), fields["tick"])
	assert.Equal(t, 0.5, fields["t"])
	assert.Equal(t, true, fields["blocked"])
	assert.Equal(t, uint64(42), fields["fingerprint"])
	assert.Equal(t, "boom", fields["error"])
}

func TestLogger_LevelFilter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))
	logger.SetLevel(LevelWarn)

	logger.Log(LevelInfo, "dropped")
	logger.Log(LevelWarn, "kept")

	assert.Equal(t, LevelWarn, logger.GetLevel())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestNewWithConfig(t *testing.T) {
	logger, err := NewWithConfig(Config{Level: "debug", Encoding: "console", Outputs: []string{t.TempDir() + "/sim.log"}})
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, logger.GetLevel())
	logger.Debug("hello")
	_ = logger.Sync()

	_, err = NewWithConfig(Config{Level: "nope"})
	assert.Error(t, err)
	assert.NotNil(t, Provide())
}
