package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/cuebit/errors"
)

// Field names shared by every cuebit log line.
const (
	FieldRequestID = "request_id"
	FieldActor     = "actor"
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldSymbol    = "symbol" // glyph from package sym

	FieldError     = "error"
	FieldErrorKind = "error_kind" // errors.Kind of FieldError

	FieldCount      = "count"
	FieldTotalCount = "total_count"
	FieldSize       = "size"
	FieldPath       = "path"
	FieldFormat     = "format"

	FieldPromptID = "prompt_id"
	FieldParentID = "parent_id"
	FieldProject  = "project"
	FieldTask     = "task"
	FieldVersion  = "version"
	FieldAlias    = "alias"
	FieldTags     = "tags"
)

type contextKey struct{}

// logContext is the request-scoped data carried in a context.Context.
type logContext struct {
	requestID string
	actor     string
	component string
}

func fromContext(ctx context.Context) logContext {
	if ctx == nil {
		return logContext{}
	}
	lc, _ := ctx.Value(contextKey{}).(logContext)
	return lc
}

func withContext(ctx context.Context, update func(*logContext)) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	lc := fromContext(ctx)
	update(&lc)
	return context.WithValue(ctx, contextKey{}, lc)
}

// WithRequestID tags ctx with the id of one CLI invocation or API call.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withContext(ctx, func(lc *logContext) { lc.requestID = requestID })
}

// WithActor tags ctx with the user the operation runs for.
func WithActor(ctx context.Context, actor string) context.Context {
	return withContext(ctx, func(lc *logContext) { lc.actor = actor })
}

// WithComponent tags ctx with the calling front end, e.g. "cli".
func WithComponent(ctx context.Context, component string) context.Context {
	return withContext(ctx, func(lc *logContext) { lc.component = component })
}

// FieldsFromContext returns the key-value pairs carried by ctx, for use with
// the *w logging methods. Empty values are omitted.
func FieldsFromContext(ctx context.Context) []interface{} {
	lc := fromContext(ctx)

	var fields []interface{}
	if lc.requestID != "" {
		fields = append(fields, FieldRequestID, lc.requestID)
	}
	if lc.actor != "" {
		fields = append(fields, FieldActor, lc.actor)
	}
	if lc.component != "" {
		fields = append(fields, FieldComponent, lc.component)
	}
	return fields
}

// LoggerFromContext returns the global logger with the fields carried by ctx.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ErrorFields returns err and its registry kind as key-value pairs.
func ErrorFields(err error) []interface{} {
	if err == nil {
		return nil
	}
	return []interface{}{FieldError, err.Error(), FieldErrorKind, errors.Kind(err)}
}

// ChildLogger returns parent with extra key-value pairs.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
