package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a category of client error.
type ErrorCode string

const (
	// ErrCodeClientUnavailable indicates no bound remote client exists yet.
	ErrCodeClientUnavailable ErrorCode = "client_unavailable"
	// ErrCodeAlreadyAuthenticated indicates a login was attempted while a local session exists.
	ErrCodeAlreadyAuthenticated ErrorCode = "already_authenticated"
	// ErrCodeRemoteCallFailure indicates the remote store rejected or failed a call.
	ErrCodeRemoteCallFailure ErrorCode = "remote_call_failure"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeForbidden indicates the caller lacks permission for the operation.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeConflict indicates the operation conflicts with current state.
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error (optional)
	Cause error
	// Field is the input field that failed validation (optional)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// ClientUnavailable reports that no remote client is bound.
func ClientUnavailable() *AppError {
	return newError(ErrCodeClientUnavailable, "Actor not available")
}

// AlreadyAuthenticated reports that a local session already exists.
func AlreadyAuthenticated() *AppError {
	return newError(ErrCodeAlreadyAuthenticated, "User is already authenticated")
}

// RemoteFailure wraps a remote call error. fallback is used as the message when the
// remote side supplied none.
func RemoteFailure(err error, fallback string) *AppError {
	if err == nil {
		return nil
	}
	msg := remoteText(err)
	if msg == "" {
		msg = fallback
	}
	return &AppError{Code: ErrCodeRemoteCallFailure, Message: msg, Cause: err}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return newError(ErrCodeNotFound, message)
}

// NotFoundf creates a new NotFound error with formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return newError(ErrCodeNotFound, fmt.Sprintf(format, args...))
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return newError(ErrCodeForbidden, message)
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return newError(ErrCodeConflict, message)
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return newError(ErrCodeValidation, message)
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return newError(ErrCodeInternal, message)
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// FromContext maps context errors onto Timeout and Canceled codes. Other errors are
// returned unchanged.
func FromContext(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "operation timed out")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "operation canceled")
	default:
		return err
	}
}

// remoteMessager is satisfied by transport errors that carry the remote side's
// message separately from their code (connect.Error does).
type remoteMessager interface {
	Message() string
}

func remoteText(err error) string {
	var rm remoteMessager
	if errors.As(err, &rm) {
		return strings.TrimSpace(rm.Message())
	}
	return ""
}

// RemoteMessage returns the text to show a user for err: the remote message when the
// transport carried one, the AppError message otherwise, or fallback.
func RemoteMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := remoteText(err); msg != "" {
		return msg
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsClientUnavailable checks if an error is a ClientUnavailable error.
func IsClientUnavailable(err error) bool { return isCode(err, ErrCodeClientUnavailable) }

// IsAlreadyAuthenticated checks if an error is an AlreadyAuthenticated error.
func IsAlreadyAuthenticated(err error) bool { return isCode(err, ErrCodeAlreadyAuthenticated) }

// IsRemoteCallFailure checks if an error is a RemoteCallFailure error.
func IsRemoteCallFailure(err error) bool { return isCode(err, ErrCodeRemoteCallFailure) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool { return isCode(err, ErrCodeInternal) }

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool { return isCode(err, ErrCodeCanceled) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
// The outermost AppError wins.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if none is set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
