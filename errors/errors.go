// Package errors provides error handling for cuebit.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints and details
//
// On top of that it defines the four error kinds every registry operation can
// return: not found, conflict, validation and store. Callers classify with the
// Is*Error predicates or with Kind.
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Classify
//	if errors.IsNotFoundError(err) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
	Mark               = crdb.Mark
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Stack traces
var (
	GetReportableStackTrace = crdb.GetReportableStackTrace
)

// GetStack is an alias for GetReportableStackTrace for convenience.
var GetStack = crdb.GetReportableStackTrace

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the registry error kinds.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the referenced prompt, alias or example does not exist
	ErrNotFound = New("not found")

	// ErrConflict indicates an alias collision without overwrite
	ErrConflict = New("conflict")

	// ErrValidation indicates malformed input: empty required field, bad template,
	// bad import payload or invalid pagination
	ErrValidation = New("validation failed")

	// ErrStore indicates the underlying persistence failed
	ErrStore = New("store error")
)

// Kind names returned by Kind.
const (
	KindNotFound   = "not_found"
	KindConflict   = "conflict"
	KindValidation = "validation"
	KindStore      = "store"
	KindUnknown    = "unknown"
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsConflictError checks if an error is or wraps ErrConflict
func IsConflictError(err error) bool {
	return err != nil && Is(err, ErrConflict)
}

// IsValidationError checks if an error is or wraps ErrValidation
func IsValidationError(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsStoreError checks if an error is or wraps ErrStore
func IsStoreError(err error) bool {
	return err != nil && Is(err, ErrStore)
}

// Kind classifies err into one of the Kind* names. Front ends use it to map
// registry failures onto their own status codes.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsNotFoundError(err):
		return KindNotFound
	case IsConflictError(err):
		return KindConflict
	case IsValidationError(err):
		return KindValidation
	case IsStoreError(err):
		return KindStore
	default:
		return KindUnknown
	}
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewConflictError creates a conflict error with a formatted message
func NewConflictError(format string, args ...interface{}) error {
	return Wrap(ErrConflict, Newf(format, args...).Error())
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...interface{}) error {
	return Wrap(ErrValidation, Newf(format, args...).Error())
}

// WrapValidation marks err as a validation failure, keeping its message and chain.
func WrapValidation(err error, context string) error {
	if err == nil {
		return nil
	}
	return Wrap(Mark(err, ErrValidation), context)
}

// WrapStore marks err as a persistence failure, keeping its message and chain.
// Errors that already carry a registry kind pass through with context only.
func WrapStore(err error, context string) error {
	if err == nil {
		return nil
	}
	if IsAny(err, ErrNotFound, ErrConflict, ErrValidation, ErrStore) {
		return Wrap(err, context)
	}
	return Wrap(Mark(err, ErrStore), context)
}

// WrapStoref is WrapStore with a formatted context.
func WrapStoref(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return WrapStore(err, Newf(format, args...).Error())
}
