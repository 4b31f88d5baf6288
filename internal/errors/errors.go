// Package errors provides application error types with classification and
// HTTP status mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents an application error code.
type Code string

// Error codes for different error categories.
const (
	// Validation errors
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeMissingField Code = "MISSING_FIELD"
	CodeInvalidInput Code = "INVALID_INPUT"

	// External service errors
	CodeProviderError  Code = "PROVIDER_ERROR"
	CodeNotConfigured  Code = "NOT_CONFIGURED"
	CodeCircuitOpen    Code = "CIRCUIT_OPEN"
	CodeRateLimited    Code = "RATE_LIMITED"
	CodeTimeout        Code = "TIMEOUT"
	CodeWebhookInvalid Code = "WEBHOOK_INVALID"

	// Sink errors
	CodeNotification Code = "NOTIFICATION_FAILED"
	CodeDatabase     Code = "DATABASE_ERROR"

	// Internal errors
	CodeInternal Code = "INTERNAL_ERROR"
)

// Kind represents the kind of error for classification.
type Kind int

const (
	// KindUnknown is an unknown error kind.
	KindUnknown Kind = iota
	// KindUser indicates a user-caused error (bad input).
	KindUser
	// KindSystem indicates a system error (sink down, internal failure).
	KindSystem
	// KindTransient indicates a temporary error that may succeed on retry.
	KindTransient
)

// Error is the base application error type.
type Error struct {
	// Code is the machine-readable error code.
	Code Code `json:"code"`
	// Message is the human-readable error message.
	Message string `json:"message"`
	// Kind classifies the error for handling decisions.
	Kind Kind `json:"-"`
	// Op is the operation being performed (e.g., "lead.Create").
	Op string `json:"-"`
	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeMissingField, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeWebhookInvalid:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeProviderError, CodeCircuitOpen:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsUserError returns true if the error was caused by user action.
func (e *Error) IsUserError() bool {
	return e.Kind == KindUser
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Kind:    kindForCode(code),
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, op string, code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Kind:    kindForCode(code),
		Op:      op,
		Err:     err,
	}
}

// kindForCode returns the default Kind for a given Code.
func kindForCode(code Code) Kind {
	switch code {
	case CodeValidation, CodeMissingField, CodeInvalidInput, CodeWebhookInvalid:
		return KindUser
	case CodeProviderError, CodeCircuitOpen, CodeRateLimited, CodeTimeout:
		return KindTransient
	default:
		return KindSystem
	}
}

// Sentinel errors for common cases.
var (
	// ErrNotConfigured indicates a required external credential is absent.
	// This is a degraded mode marker, not a failure.
	ErrNotConfigured = New(CodeNotConfigured, "external service not configured")

	// ErrCircuitOpen indicates the completion provider circuit is open.
	ErrCircuitOpen = New(CodeCircuitOpen, "completion provider temporarily unavailable")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = New(CodeRateLimited, "rate limit exceeded")
)

// MissingField creates a missing field validation error.
func MissingField(field string) *Error {
	return &Error{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("missing required field: %s", field),
		Kind:    KindUser,
	}
}

// ValidationFailed creates a validation error with details.
func ValidationFailed(message string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Kind:    KindUser,
	}
}

// ProviderError creates a completion provider error.
func ProviderError(err error) *Error {
	return &Error{
		Code:    CodeProviderError,
		Message: "completion provider error",
		Kind:    KindTransient,
		Err:     err,
	}
}

// DatabaseError creates a database error with the underlying cause.
func DatabaseError(op string, err error) *Error {
	return &Error{
		Code:    CodeDatabase,
		Message: "database operation failed",
		Kind:    KindSystem,
		Op:      op,
		Err:     err,
	}
}

// NotificationError creates a notification sink error. These are fatal to
// the originating request: in degraded (no database) deployments, email is
// the only durable record of a lead.
func NotificationError(op string, err error) *Error {
	return &Error{
		Code:    CodeNotification,
		Message: "failed to send notification email",
		Kind:    KindSystem,
		Op:      op,
		Err:     err,
	}
}

// InternalError creates a generic internal error.
func InternalError(message string, err error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: message,
		Kind:    KindSystem,
		Err:     err,
	}
}

// GetCode extracts the error code from an error, returning CodeInternal for
// non-app errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetHTTPStatus extracts the HTTP status from an error, returning 500 for
// non-app errors.
func GetHTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// IsUserError checks if an error was caused by user action.
func IsUserError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.IsUserError()
	}
	return false
}

// IsNotConfigured checks if an error marks an unconfigured external service.
func IsNotConfigured(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == CodeNotConfigured
	}
	return false
}
