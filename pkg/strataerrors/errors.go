// Package strataerrors provides structured error handling for strata with
// error categorization, key-value context, and stack capture.
//
// Every failure the analysis engine surfaces is a *Error carrying an
// ErrorType, so callers can distinguish fatal conditions (missing file,
// corrupt metadata, empty schema) from recoverable ones (a column type the
// overhead tables do not know) without string matching.
//
//	prof, err := reader.Profile(ctx, path)
//	if strataerrors.IsType(err, strataerrors.ErrorTypeNotFound) {
//	    // skip the file
//	}
package strataerrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType categorizes an analysis failure.
type ErrorType string

const (
	// ErrorTypeNotFound means the input file does not exist or is unreadable.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeFormat means the file header, footer, or metadata is corrupt
	// or does not match the declared format.
	ErrorTypeFormat ErrorType = "format"
	// ErrorTypeSchema means the file has a schema the engine cannot estimate
	// against, such as zero columns.
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeUnsupportedType means a column's type is absent from the
	// overhead tables. Recoverable via a fallback multiplier, caller policy.
	ErrorTypeUnsupportedType ErrorType = "unsupported_type"
	// ErrorTypeConfig means the configuration is invalid.
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInternal means an unexpected internal failure.
	ErrorTypeInternal ErrorType = "internal"
)

// Error is a structured error with a type, optional cause, key-value
// details, and the call stack captured at creation.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame is a single frame of the captured call stack.
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key-value detail and returns the error for chaining.
//
//	return strataerrors.New(strataerrors.ErrorTypeSchema, "file has no columns").
//	    WithDetail("path", path)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates an error of the given type, capturing the call stack.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with a type and message, preserving the
// original as the cause. If err is already a *Error its stack is kept.
// Returns nil when err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existing.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType reports whether err is (or wraps) a *Error of the given type.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsFatal reports whether the error type admits no fallback. Only
// unsupported_type errors are recoverable; everything else aborts the
// analysis of that file.
func IsFatal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	return e.Type != ErrorTypeUnsupportedType
}

func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
