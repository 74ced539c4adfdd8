package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zazzles-app/credit-ledger/internal/domain/port/core"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]core.LogLevel{
		"debug":   core.LogLevelDebug,
		"INFO":    core.LogLevelInfo,
		"warning": core.LogLevelWarn,
		"error":   core.LogLevelError,
		"":        core.LogLevelInfo,
		"verbose": core.LogLevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestZapLoggerFields(t *testing.T) {
	// Arrange
	zc, logs := observer.New(zap.DebugLevel)
	log := NewZapLoggerWithCore(zc)

	// Act
	log.Info("Credits deducted", map[string]any{
		"business_id":       "b-1",
		"credits_remaining": 4,
	})

	// Assert
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Credits deducted", entry.Message)
	assert.Equal(t, "b-1", entry.ContextMap()["business_id"])
	assert.EqualValues(t, 4, entry.ContextMap()["credits_remaining"])
}

func TestZapLoggerLevel(t *testing.T) {
	zc, logs := observer.New(zap.DebugLevel)
	log := NewZapLoggerWithCore(zc)

	log.SetLevel(core.LogLevelWarn)
	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	log.Warn("shown", nil)
	log.Error("shown", nil)

	assert.Equal(t, core.LogLevelWarn, log.GetLevel())
	assert.Equal(t, 2, logs.Len())
}

func TestNewZapLogger(t *testing.T) {
	log, err := NewZapLogger(Options{Production: true, Level: "error", Format: "json", Output: "stderr"})

	require.NoError(t, err)
	assert.Equal(t, core.LogLevelError, log.GetLevel())
}
