// Package errors carries coded errors across the derive, layout, and render
// stages and out to the CLI and HTTP API.
//
// Every failure the pipeline can report maps to one Code. The HTTP layer
// turns codes into status classes (INVALID_* into 400, MALFORMED_TREE into
// 422, *_NOT_FOUND into 404) and the CLI prints UserMessage, so producing
// the right code at the failure site is the whole error-handling contract:
//
//	return errors.New(errors.ErrCodeInvalidDocument, "trailing data after document")
//
// Wrapping keeps the cause chain intact for errors.Is and %w:
//
//	return errors.Wrap(errors.ErrCodeMalformedTree, err, "add edge %s->%s", src, dst)
package errors

import (
	"errors"
	"fmt"
)

// Code identifies one failure class across all surfaces of the tool.
type Code string

const (
	// Rejected inputs: pipeline options, documents, output formats,
	// config files, stored names.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidName     Code = "INVALID_NAME"

	// A node/edge set that is not a strict single-root tree.
	ErrCodeMalformedTree Code = "MALFORMED_TREE"

	// Missing resources.
	ErrCodeNotFound           Code = "NOT_FOUND"
	ErrCodeFileNotFound       Code = "FILE_NOT_FOUND"
	ErrCodeInspectionNotFound Code = "INSPECTION_NOT_FOUND"

	// Everything else.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a human-readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders as "CODE: message", with the cause appended when present.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to the stdlib errors helpers.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a coded error around a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode returns the code of the first *Error in the chain, or "" when
// there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix for display. Non-coded errors pass
// through unchanged.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
