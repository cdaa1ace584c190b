package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

func TestZapLogger_LevelFiltering(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFromCore(obsCore, core.LogLevelWarn)

	log.Debug("debug", nil)
	log.Info("info", nil)
	log.Warn("warn", map[string]any{"account_id": "a"})
	log.Error("error", map[string]any{"error": errors.New("boom")})

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "warn", entries[0].Message)
	assert.Equal(t, "a", entries[0].ContextMap()["account_id"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	log.SetLevel(core.LogLevelDebug)
	assert.Equal(t, core.LogLevelDebug, log.GetLevel())
	log.Debug("debug again", nil)
	assert.Equal(t, 3, logs.Len())
}

func TestZapLogger_With(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFromCore(obsCore, core.LogLevelInfo)

	child := log.With(map[string]any{"operation": "requestPayout"})
	child.Info("payout requested", map[string]any{"amount": int64(1500)})

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "requestPayout", fields["operation"])
	assert.Equal(t, int64(1500), fields["amount"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, core.LogLevelDebug, core.ParseLogLevel("DEBUG"))
	assert.Equal(t, core.LogLevelWarn, core.ParseLogLevel("warning"))
	assert.Equal(t, core.LogLevelError, core.ParseLogLevel("error"))
	assert.Equal(t, core.LogLevelInfo, core.ParseLogLevel("bogus"))
}

func TestNoopLogger(t *testing.T) {
	log := NewNoopLogger()
	log.SetLevel(core.LogLevelError)
	assert.Equal(t, core.LogLevelError, log.GetLevel())
	assert.Same(t, log, log.With(map[string]any{"k": "v"}))
	assert.NoError(t, log.Flush())
}
