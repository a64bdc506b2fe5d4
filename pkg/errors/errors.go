package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the top-level error taxonomy surfaced to callers.
type Kind string

const (
	// KindConfiguration means the gateway credentials are missing; fatal to startup.
	KindConfiguration Kind = "CONFIGURATION"
	// KindAuth covers sign-in, sign-up and sign-out failures. Always recoverable.
	KindAuth Kind = "AUTH"
	// KindData covers query and mutation failures. Always recoverable.
	KindData Kind = "DATA"
	// KindUnexpected is reserved for programming faults caught at the top-level boundary.
	KindUnexpected Kind = "UNEXPECTED"
)

// Reason narrows a Kind.
type Reason string

const (
	ReasonMissingSetting     Reason = "missing_setting"
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonAlreadyExists      Reason = "already_exists"
	ReasonRateLimited        Reason = "rate_limited"
	ReasonProvider           Reason = "provider"
	ReasonInvalidInput       Reason = "invalid_input"
	ReasonSignInRequired     Reason = "sign_in_required"
	ReasonNotFound           Reason = "not_found"
	ReasonForbidden          Reason = "forbidden"
	ReasonValidation         Reason = "validation"
	ReasonConflict           Reason = "conflict"
	ReasonUnavailable        Reason = "unavailable"
	ReasonRemote             Reason = "remote"
	ReasonPanic              Reason = "panic"
)

// AppError represents an application-specific error
type AppError struct {
	Kind       Kind                   `json:"kind"`
	Reason     Reason                 `json:"reason"`
	Message    string                 `json:"message"`
	Retryable  bool                   `json:"retryable"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s(%s): %s (caused by: %v)", e.Kind, e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s(%s): %s", e.Kind, e.Reason, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// NewConfiguration creates a configuration error. Details list each setting and whether it is set.
func NewConfiguration(message string, settings map[string]bool) *AppError {
	details := make(map[string]interface{}, len(settings))
	for k, v := range settings {
		details[k] = v
	}
	return &AppError{
		Kind:       KindConfiguration,
		Reason:     ReasonMissingSetting,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewAuth creates an authentication error
func NewAuth(reason Reason, message string) *AppError {
	return &AppError{
		Kind:       KindAuth,
		Reason:     reason,
		Message:    message,
		Retryable:  true,
		HTTPStatus: authStatus(reason),
	}
}

// NewData creates a data error
func NewData(reason Reason, message string) *AppError {
	return &AppError{
		Kind:       KindData,
		Reason:     reason,
		Message:    message,
		Retryable:  reason != ReasonForbidden && reason != ReasonNotFound && reason != ReasonValidation,
		HTTPStatus: dataStatus(reason),
	}
}

// NewUnexpected creates an unexpected error
func NewUnexpected(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindUnexpected,
		Reason:     ReasonPanic,
		Message:    message,
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NotFound creates a data error for a missing resource
func NotFound(resource string) *AppError {
	return NewData(ReasonNotFound, fmt.Sprintf("%s not found", resource))
}

// Forbidden creates a data error for an ownership violation
func Forbidden(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return NewData(ReasonForbidden, message)
}

// Validation creates a data error for rejected input
func Validation(message string) *AppError {
	return NewData(ReasonValidation, message)
}

// SignInRequired creates the error returned by operations that need an identity
func SignInRequired() *AppError {
	return NewAuth(ReasonSignInRequired, "sign in required")
}

func authStatus(reason Reason) int {
	switch reason {
	case ReasonInvalidCredentials, ReasonSignInRequired:
		return http.StatusUnauthorized
	case ReasonAlreadyExists:
		return http.StatusConflict
	case ReasonRateLimited:
		return http.StatusTooManyRequests
	case ReasonInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func dataStatus(reason Reason) int {
	switch reason {
	case ReasonNotFound:
		return http.StatusNotFound
	case ReasonForbidden:
		return http.StatusForbidden
	case ReasonValidation:
		return http.StatusBadRequest
	case ReasonConflict:
		return http.StatusConflict
	case ReasonUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// Helper functions

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind checks if an error is of a specific kind
func IsKind(err error, kind Kind) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Kind == kind
}

// HasReason checks if an error carries a specific reason
func HasReason(err error, reason Reason) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Reason == reason
}

func IsConfiguration(err error) bool { return IsKind(err, KindConfiguration) }
func IsAuth(err error) bool          { return IsKind(err, KindAuth) }
func IsData(err error) bool          { return IsKind(err, KindData) }
func IsUnexpected(err error) bool    { return IsKind(err, KindUnexpected) }
func IsNotFound(err error) bool      { return HasReason(err, ReasonNotFound) }
func IsForbidden(err error) bool     { return HasReason(err, ReasonForbidden) }
func IsValidation(err error) bool    { return HasReason(err, ReasonValidation) }
func IsConflict(err error) bool      { return HasReason(err, ReasonConflict) }

// Wrap wraps an error with additional context. Errors that are not already
// AppErrors become remote data errors.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		wrapped := *appErr
		wrapped.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return &wrapped
	}

	return NewData(ReasonRemote, message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
