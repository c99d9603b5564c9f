package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// Verbosity level constants for CLI flag counts.
const (
	VerbosityUser  = 0 // No flags: results and errors only
	VerbosityInfo  = 1 // -v: + mutations and migrations
	VerbosityDebug = 2 // -vv: + per-operation detail
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
//
// Mapping:
//
//	0 (none)  -> WarnLevel  (errors and warnings only)
//	1 (-v)    -> InfoLevel  (+ informational messages)
//	2+ (-vv)  -> DebugLevel (+ debug messages)
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// LevelToVerbosity is the inverse of VerbosityToLevel for config-file level names.
func LevelToVerbosity(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return VerbosityDebug
	case "info":
		return VerbosityInfo
	default:
		return VerbosityUser
	}
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch {
	case verbosity <= VerbosityUser:
		return "User"
	case verbosity == VerbosityInfo:
		return "Info (-v)"
	default:
		return "Debug (-vv)"
	}
}
