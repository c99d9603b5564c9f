// Package logger holds the process-wide zap logger and the field names and
// context helpers used with it.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is a no-op until Initialize is called.
	Logger *zap.SugaredLogger = zap.NewNop().Sugar()
	// JSONOutput records whether Initialize selected JSON encoding.
	JSONOutput bool
)

// Initialize replaces Logger with one writing to stderr, keeping stdout for
// command results. jsonOutput selects machine-readable lines; verbosity is
// the -v count from the CLI.
func Initialize(jsonOutput bool, verbosity int) error {
	return InitializeWriter(os.Stderr, jsonOutput, verbosity)
}

// InitializeFromLevel is Initialize with a level name such as "debug" or "warn".
// Unknown names fall back to warn.
func InitializeFromLevel(jsonOutput bool, levelName string) error {
	return Initialize(jsonOutput, LevelToVerbosity(levelName))
}

// InitializeWriter is Initialize with an explicit destination.
func InitializeWriter(w io.Writer, jsonOutput bool, verbosity int) error {
	Logger = New(w, jsonOutput, VerbosityToLevel(verbosity)).Sugar()
	JSONOutput = jsonOutput
	return nil
}

// New builds a logger writing to w at level.
func New(w io.Writer, jsonOutput bool, level zapcore.Level) *zap.Logger {
	var encoder zapcore.Encoder
	if jsonOutput {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(cfg)
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
