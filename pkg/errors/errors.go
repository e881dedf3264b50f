// Package errors gives drivetrain failures a machine-readable Code.
//
// The layout pass itself never fails; geometry clamps bad input. Codes only
// arise at the edges: decoding definitions, configuration, sessions, cache
// backends and renderers. Each code belongs to a Class, and the CLI and the
// HTTP server map classes (not individual codes) onto exit codes and status
// codes.
//
//	err := errors.New(errors.ErrCodeInvalidElement, "stage %q has no variants", id)
//	err = errors.Annotate(err, "element %d", i)
//	errors.ClassOf(err) // errors.ClassValidation
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidElement Code = "INVALID_ELEMENT"
	ErrCodeInvalidKind    Code = "INVALID_KIND"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeUnsupported Code = "UNSUPPORTED"
	// ErrCodeUnavailable marks a backend (Redis, the graphviz runtime) that
	// failed in a way a retry may fix.
	ErrCodeUnavailable Code = "UNAVAILABLE"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
)

// Class groups codes by how callers react to them.
type Class int

const (
	ClassInternal Class = iota
	ClassValidation
	ClassNotFound
	ClassUnsupported
	ClassUnavailable
)

var classes = map[Code]Class{
	ErrCodeInvalidInput:    ClassValidation,
	ErrCodeInvalidElement:  ClassValidation,
	ErrCodeInvalidKind:     ClassValidation,
	ErrCodeInvalidFormat:   ClassValidation,
	ErrCodeInvalidConfig:   ClassValidation,
	ErrCodeNotFound:        ClassNotFound,
	ErrCodeFileNotFound:    ClassNotFound,
	ErrCodeSessionNotFound: ClassNotFound,
	ErrCodeUnsupported:     ClassUnsupported,
	ErrCodeUnavailable:     ClassUnavailable,
}

// Class returns the class of c. Unknown codes are internal.
func (c Code) Class() Class { return classes[c] }

func (c Class) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassNotFound:
		return "not found"
	case ClassUnsupported:
		return "unsupported"
	case ClassUnavailable:
		return "unavailable"
	}
	return "internal"
}

// Error carries a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Annotate prefixes err with location context and keeps its code, so an
// invalid variant deep in a definition still reports INVALID_KIND. Errors
// without a code become internal. A nil err stays nil.
func Annotate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	code := GetCode(err)
	if code == "" {
		code = ErrCodeInternal
	}
	return Wrap(code, err, format, args...)
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool { return GetCode(err) == code && code != "" }

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ClassOf returns the class of err's code. Plain errors are internal.
func ClassOf(err error) Class { return GetCode(err).Class() }

// IsValidation reports whether err is one of the INVALID_* codes.
func IsValidation(err error) bool { return ClassOf(err) == ClassValidation }

// IsNotFound reports whether err is one of the *_NOT_FOUND codes.
func IsNotFound(err error) bool { return ClassOf(err) == ClassNotFound }

// IsUnavailable reports whether err marks a transient backend failure.
func IsUnavailable(err error) bool { return ClassOf(err) == ClassUnavailable }

// UserMessage renders err without code prefixes.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// Exit codes returned by the drivetrain command.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalid     = 2
	ExitInterrupted = 130
)

// ExitCode maps err onto a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case IsValidation(err):
		return ExitInvalid
	}
	return ExitFailure
}
