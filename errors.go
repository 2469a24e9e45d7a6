package genexpand

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// ExpansionError represents a failure detected during one expansion call.
//
// Expansion failures fall into three categories:
//   - IO: the source handle could not be read
//   - Syntax: the source text, or a registered path string, failed to parse
//   - Invocation: a generator callback panicked during traversal
//
// IO and syntax failures are always detected before any site is visited;
// an invocation failure can only occur during traversal and aborts every
// site not yet visited in that file.
type ExpansionError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Pos is the source position, if one is available.
	Pos token.Pos

	// Err is the underlying error, if any.
	Err error
}

// ErrorCode categorizes expansion failures.
type ErrorCode string

const (
	// ErrCodeIO indicates the source handle was unreadable.
	ErrCodeIO ErrorCode = "IO_FAILURE"

	// ErrCodeSyntax indicates the source text or a registered path string
	// failed to parse.
	ErrCodeSyntax ErrorCode = "SYNTAX_FAILURE"

	// ErrCodeInvocation indicates a generator callback panicked during
	// traversal. The identity of the failing site is not retained.
	ErrCodeInvocation ErrorCode = "INVOCATION_FAILURE"
)

// Error implements the error interface.
func (e *ExpansionError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *ExpansionError) Unwrap() error {
	return e.Err
}

// IsIOError returns true if the error is an unreadable-source failure.
// Uses errors.As to handle wrapped errors.
func IsIOError(err error) bool {
	var ee *ExpansionError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeIO
	}
	return false
}

// IsSyntaxError returns true if the error is a parse failure of either the
// source text or a registered path string.
// Uses errors.As to handle wrapped errors.
func IsSyntaxError(err error) bool {
	var ee *ExpansionError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeSyntax
	}
	return false
}

// IsInvocationError returns true if the error was produced by a callback
// panicking during traversal.
// Uses errors.As to handle wrapped errors.
func IsInvocationError(err error) bool {
	var ee *ExpansionError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeInvocation
	}
	return false
}

func newIOError(message string, err error) *ExpansionError {
	return &ExpansionError{Code: ErrCodeIO, Message: message, Err: err}
}

func newSyntaxError(message string, pos token.Pos, err error) *ExpansionError {
	return &ExpansionError{Code: ErrCodeSyntax, Message: message, Pos: pos, Err: err}
}

func newInvocationError(recovered any) *ExpansionError {
	return &ExpansionError{
		Code:    ErrCodeInvocation,
		Message: fmt.Sprintf("generator callback panicked: %v", recovered),
	}
}
