// Package errors carries coded errors through afgraph.
//
// Every failure that reaches a user surface (the CLI, the terminal viewer
// or the web handlers) is either an [*Error] or a domain type implementing
// [Coder]. The code decides the exit message, the JSON "code" field and,
// through [HTTPStatus], the response status.
//
// Codes are grouped by prefix:
//   - INVALID_*: rejected input, configuration, format or location
//   - EMPTY_LABEL, UNKNOWN_COLOR: malformed edge labels
//   - ENGINE_COMMIT, CONNECTION, NOT_FOUND: engine and store failures
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Typical use:
//
//	if !feasible(raw) {
//	    return errors.New(errors.ErrCodeInvalidInput, "%s not feasible", raw)
//	}
//	if err := store.Ping(ctx); err != nil {
//	    return errors.Wrap(errors.ErrCodeConnection, err, "connect to %s", location)
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidLocation Code = "INVALID_LOCATION"

	ErrCodeEmptyLabel   Code = "EMPTY_LABEL"
	ErrCodeUnknownColor Code = "UNKNOWN_COLOR"

	ErrCodeEngineCommit Code = "ENGINE_COMMIT"
	ErrCodeConnection   Code = "CONNECTION"
	ErrCodeNotFound     Code = "NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// statusByCode maps codes to HTTP statuses. Codes missing here are
// reported as 500.
var statusByCode = map[Code]int{
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidConfig:   http.StatusBadRequest,
	ErrCodeInvalidFormat:   http.StatusBadRequest,
	ErrCodeInvalidLocation: http.StatusBadRequest,
	ErrCodeEmptyLabel:      http.StatusUnprocessableEntity,
	ErrCodeUnknownColor:    http.StatusUnprocessableEntity,
	ErrCodeEngineCommit:    http.StatusConflict,
	ErrCodeConnection:      http.StatusBadGateway,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeUnsupported:     http.StatusNotFound,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is like [New] but keeps cause reachable through errors.Is and
// errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Coder is implemented by domain error types that carry a code without
// being an *Error themselves.
type Coder interface {
	Code() Code
}

// GetCode returns the first code found in the chain of err, or "".
// An *Error wins over a [Coder] further down the chain.
func GetCode(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// UserMessage returns the message of the outermost *Error in the chain,
// without its code prefix. Other errors are returned as their Error text.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps the code of err to a response status. Errors without a
// code get fallback.
func HTTPStatus(err error, fallback int) int {
	code := GetCode(err)
	if code == "" {
		return fallback
	}
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
