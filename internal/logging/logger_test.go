package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugEnabled(t *testing.T) {
	t.Setenv("HB_DEBUG", "")
	assert.False(t, DebugEnabled())

	t.Setenv("HB_DEBUG", "1")
	assert.True(t, DebugEnabled())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestLogger_WritesKeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "door")

	log.Info("status polled", "status", "Person detected")
	log.Debugf("tick %d", 3)
	log.Warn("poll failed", "error", "refused")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "status polled", entries[0].Message)
	assert.Equal(t, "door", entries[0].ContextMap()["component"])
	assert.Equal(t, "Person detected", entries[0].ContextMap()["status"])
	assert.Equal(t, "tick 3", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
}

func TestNew(t *testing.T) {
	t.Setenv("HB_DEBUG", "")
	log, err := New(Options{Mode: "production", Level: "warn"})
	require.NoError(t, err)
	assert.False(t, log.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel))

	t.Setenv("HB_DEBUG", "1")
	log, err = New(Options{Mode: "development", Level: "warn"})
	require.NoError(t, err)
	assert.True(t, log.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel))

	Nop().Info("discarded")
}
