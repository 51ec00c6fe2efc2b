// Package errors defines the coded errors shared by the procflow engine,
// CLI and HTTP API.
//
// Every failure that crosses a package boundary carries a [Code]. Callers
// branch on the code rather than on message text:
//
//	m, err := process.Split(rows, limits)
//	if errors.Is(err, errors.ErrCodeContractViolation) {
//	    // bad document, retrying will not help
//	}
//
// CONTRACT_VIOLATION is reserved for broken engine preconditions such as
// duplicate ids or transitions that name a missing activity. Degenerate
// edge geometry never surfaces here; the assembler absorbs it and leaves
// the edge without a path.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a stable, machine-readable error category.
type Code string

const (
	ErrCodeContractViolation Code = "CONTRACT_VIOLATION"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// httpStatus is the API status for each code. Codes not listed map to 500.
var httpStatus = map[Code]int{
	ErrCodeContractViolation: http.StatusUnprocessableEntity,
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidFormat:     http.StatusBadRequest,
	ErrCodeInvalidConfig:     http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeFileNotFound:      http.StatusNotFound,
	ErrCodeUnsupported:       http.StatusNotImplemented,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error that keeps cause reachable through errors.Unwrap.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// ContractViolation reports a broken engine precondition.
func ContractViolation(format string, args ...any) *Error {
	return New(ErrCodeContractViolation, format, args...)
}

// outermost returns the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost coded error, or "".
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause for display. Uncoded errors
// are returned verbatim.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status code the API answers with.
func HTTPStatus(err error) int {
	if s, ok := httpStatus[GetCode(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}
