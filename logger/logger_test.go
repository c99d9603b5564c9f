package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/cuebit/errors"
)

func restoreGlobal(t *testing.T) {
	original, originalJSON := Logger, JSONOutput
	t.Cleanup(func() {
		Logger, JSONOutput = original, originalJSON
	})
}

func TestInitializeWriterJSON(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer

	require.NoError(t, InitializeWriter(&buf, true, VerbosityInfo))
	assert.True(t, JSONOutput)

	Logger.Debugw("hidden")
	Logger.Infow("prompt registered", FieldPromptID, "p-1")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
	assert.Equal(t, "prompt registered", line["msg"])
	assert.Equal(t, "p-1", line[FieldPromptID])
	assert.Equal(t, "info", line["level"])
}

func TestInitializeWriterConsole(t *testing.T) {
	restoreGlobal(t)
	var buf bytes.Buffer

	require.NoError(t, InitializeWriter(&buf, false, VerbosityUser))
	assert.False(t, JSONOutput)

	Logger.Infow("hidden at warn")
	Logger.Warnw("alias dropped", FieldAlias, "prod")

	out := buf.String()
	assert.NotContains(t, out, "hidden at warn")
	assert.Contains(t, out, "alias dropped")
	assert.Contains(t, out, `"alias": "prod"`)
}

func TestInitializeFromLevel(t *testing.T) {
	restoreGlobal(t)

	require.NoError(t, InitializeFromLevel(false, "debug"))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, InitializeFromLevel(false, "nonsense"))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	Cleanup()
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-3))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestLevelToVerbosity(t *testing.T) {
	assert.Equal(t, VerbosityDebug, LevelToVerbosity("DEBUG"))
	assert.Equal(t, VerbosityInfo, LevelToVerbosity(" info "))
	assert.Equal(t, VerbosityUser, LevelToVerbosity("warn"))
	assert.Equal(t, VerbosityUser, LevelToVerbosity(""))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(5))
}

func TestContextFieldsAccumulate(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithActor(ctx, "alice")
	ctx = WithComponent(ctx, "cli")
	ctx = WithActor(ctx, "bob")

	assert.Equal(t, []interface{}{
		FieldRequestID, "req-1",
		FieldActor, "bob",
		FieldComponent, "cli",
	}, FieldsFromContext(ctx))
}

func TestContextFieldsDoNotLeakToParent(t *testing.T) {
	parent := WithActor(context.Background(), "alice")
	_ = WithComponent(parent, "cli")

	assert.Equal(t, []interface{}{FieldActor, "alice"}, FieldsFromContext(parent))
}

func TestLoggerFromContext(t *testing.T) {
	restoreGlobal(t)
	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithComponent(ctx, "registry")
	LoggerFromContext(ctx).Infow("prompt registered", FieldPromptID, "p-1")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-1", fields[FieldRequestID])
	assert.Equal(t, "registry", fields[FieldComponent])
	assert.Equal(t, "p-1", fields[FieldPromptID])
}

func TestLoggerFromEmptyContext(t *testing.T) {
	assert.Empty(t, FieldsFromContext(context.Background()))
	assert.Same(t, Logger, LoggerFromContext(context.Background()))
}

func TestErrorFields(t *testing.T) {
	assert.Nil(t, ErrorFields(nil))

	err := errors.NewConflictError("alias prod is held by p-1")
	fields := ErrorFields(err)
	require.Len(t, fields, 4)
	assert.Equal(t, FieldError, fields[0])
	assert.Contains(t, fields[1], "alias prod is held by p-1")
	assert.Equal(t, FieldErrorKind, fields[2])
	assert.Equal(t, errors.KindConflict, fields[3])
}

func TestChildLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	parent := zap.New(core).Sugar()

	ChildLogger(parent, FieldProject, "content").Infow("listed")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "content", logs.All()[0].ContextMap()[FieldProject])
}
