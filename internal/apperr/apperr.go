package apperr

import (
	"errors"
	"fmt"
)

const (
	CodeNotFound    = "NOT_FOUND"
	CodeAccess      = "ACCESS_DENIED"
	CodeValidation  = "VALIDATION_FAILED"
	CodeUnavailable = "STORE_UNAVAILABLE"
)

// Error is the structured error carried from the grid and store layers up to
// the tool handlers, where it is translated into a wire payload.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Accessf(format string, args ...any) *Error {
	return &Error{Code: CodeAccess, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func Unavailablef(format string, args ...any) *Error {
	return &Error{Code: CodeUnavailable, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code string, err error, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// CodeOf returns the code of err, or empty string if err carries none.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsNotFound(err error) bool   { return CodeOf(err) == CodeNotFound }
func IsAccess(err error) bool     { return CodeOf(err) == CodeAccess }
func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }
