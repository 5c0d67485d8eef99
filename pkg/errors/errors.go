// Package errors provides structured error handling for tabsolver
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeAlignment represents index key-set mismatches between a
	// per-row spec and its target index
	ErrorTypeAlignment ErrorType = "alignment"
	// ErrorTypeMissingValue represents null values in a resolved per-row spec
	ErrorTypeMissingValue ErrorType = "missing_value"
	// ErrorTypeDuplicateIndex represents repeated keys in a row index
	ErrorTypeDuplicateIndex ErrorType = "duplicate_index"
	// ErrorTypeInvalidSense represents a relational operator outside {<,=,>}
	ErrorTypeInvalidSense ErrorType = "invalid_sense"
	// ErrorTypeExpressionParse represents a malformed two-sided expression
	ErrorTypeExpressionParse ErrorType = "expression_parse"
	// ErrorTypeTypeConstraint represents an attribute spec whose shape does
	// not match what the calling context expects
	ErrorTypeTypeConstraint ErrorType = "type_constraint"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeSolver represents errors surfaced by the solver collaborator
	ErrorTypeSolver ErrorType = "solver"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with the given type and a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsAlignment reports whether err is an alignment error
func IsAlignment(err error) bool { return IsType(err, ErrorTypeAlignment) }

// IsMissingValue reports whether err is a missing-value error
func IsMissingValue(err error) bool { return IsType(err, ErrorTypeMissingValue) }

// IsDuplicateIndex reports whether err is a duplicate-index error
func IsDuplicateIndex(err error) bool { return IsType(err, ErrorTypeDuplicateIndex) }

// IsInvalidSense reports whether err is an invalid-sense error
func IsInvalidSense(err error) bool { return IsType(err, ErrorTypeInvalidSense) }

// IsExpressionParse reports whether err is an expression-parse error
func IsExpressionParse(err error) bool { return IsType(err, ErrorTypeExpressionParse) }

// IsTypeConstraint reports whether err is a type-constraint error
func IsTypeConstraint(err error) bool { return IsType(err, ErrorTypeTypeConstraint) }

// IsConfig reports whether err is a configuration error
func IsConfig(err error) bool { return IsType(err, ErrorTypeConfig) }

// captureStack captures the current call stack
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
