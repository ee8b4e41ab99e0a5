package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapterFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"taskType": "estimate-apartment-price"})

	log.Warn("could not normalize field", map[string]interface{}{
		"field": "floor",
		"input": "1-2",
		"error": errors.New("not an integer"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "could not normalize field", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "estimate-apartment-price", ctx["taskType"])
	assert.Equal(t, "floor", ctx["field"])
	assert.Equal(t, "not an integer", ctx["error"])
}

func TestWithError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapAdapter(zap.New(core)).WithError(errors.New("model missing"))

	log.Debug("dropped below level", nil)
	log.Error("startup failed", nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "model missing", entries[0].ContextMap()["error"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	l := New("not-a-level", "json")
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNoOpAndTestLoggers(t *testing.T) {
	NewNoOpLogger().Info("nothing", map[string]interface{}{"k": 1})
	NewTestLogger(t).Info("visible in -v", map[string]interface{}{"k": 1})
}
