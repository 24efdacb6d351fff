package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/forkscope/forkscope/pkg/scoring"
)

func TestNew(t *testing.T) {
	logger, err := New(false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	verbose, err := New(true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}

func TestTraceSink(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := TraceSink(zap.New(core))

	sink.Emit(scoring.Event{Kind: scoring.EventRow, Row: 0, Forks: 1})
	sink.Emit(scoring.Event{
		Kind: scoring.EventScore, Row: 0, Forks: 1,
		Column: "a", Feature: "a", Value: "1", Label: "enabled",
		Note: "forked -> +1", Delta: 1,
	})
	sink.Emit(scoring.Event{Kind: scoring.EventRowSkipped, Row: 1, Value: "oops", Note: "unparseable fork count"})

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "trace", entries[0].LoggerName)

	score := entries[1]
	assert.Equal(t, zapcore.InfoLevel, score.Level)
	assert.Equal(t, "forked -> +1", score.Message)
	ctx := score.ContextMap()
	assert.Equal(t, "a", ctx["feature"])
	assert.Equal(t, int64(1), ctx["delta"])
	assert.Equal(t, "SCORE", ctx["kind"])

	assert.Equal(t, "oops", entries[2].ContextMap()["value"])
}

func TestTraceSinkFiltersByLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := TraceSink(zap.New(core))

	sink.Emit(scoring.Event{Kind: scoring.EventRow})
	sink.Emit(scoring.Event{Kind: scoring.EventSkip, Column: "a", Note: "missing, skipped"})

	assert.Equal(t, 0, logs.Len())
}
