package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for scheduling operations.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates a malformed or incomplete meeting request.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeAvailabilityLookupFailed indicates busy-interval retrieval failed for a participant.
	ErrCodeAvailabilityLookupFailed ErrorCode = "AVAILABILITY_LOOKUP_FAILED"
	// ErrCodeEventCreationFailed indicates the calendar backend rejected event creation.
	ErrCodeEventCreationFailed ErrorCode = "EVENT_CREATION_FAILED"
	// ErrCodeCompletionUnavailable indicates the completion service failed or returned garbage.
	ErrCodeCompletionUnavailable ErrorCode = "COMPLETION_UNAVAILABLE"
	// ErrCodeSessionUnavailable indicates no calendar session could be established.
	ErrCodeSessionUnavailable ErrorCode = "SESSION_UNAVAILABLE"
	// ErrCodeTimeout indicates a collaborator call exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates a failure that prevented building a structured result.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// SchedulingError is a structured error carrying a code and optional cause.
type SchedulingError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchedulingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SchedulingError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// InvalidRequest creates an invalid request error.
func InvalidRequest(msg string) *SchedulingError {
	return &SchedulingError{Code: ErrCodeInvalidRequest, Message: msg}
}

// AvailabilityLookupFailed creates a per-participant lookup error.
func AvailabilityLookupFailed(participant string, cause error) *SchedulingError {
	return &SchedulingError{
		Code:    ErrCodeAvailabilityLookupFailed,
		Message: fmt.Sprintf("busy interval lookup failed for %s", participant),
		Cause:   cause,
	}
}

// EventCreationFailed creates an event creation error.
func EventCreationFailed(cause error) *SchedulingError {
	return &SchedulingError{Code: ErrCodeEventCreationFailed, Message: "event creation failed", Cause: cause}
}

// CompletionUnavailable creates a completion service error.
func CompletionUnavailable(cause error) *SchedulingError {
	return &SchedulingError{Code: ErrCodeCompletionUnavailable, Message: "completion service unavailable", Cause: cause}
}

// SessionUnavailable creates a session error.
func SessionUnavailable(participant string, cause error) *SchedulingError {
	return &SchedulingError{
		Code:    ErrCodeSessionUnavailable,
		Message: fmt.Sprintf("no calendar session for %s", participant),
		Cause:   cause,
	}
}

// Timeout creates a timeout error.
func Timeout(msg string) *SchedulingError {
	return &SchedulingError{Code: ErrCodeTimeout, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string, cause error) *SchedulingError {
	return &SchedulingError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *SchedulingError {
	return &SchedulingError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	if schedErr, ok := err.(*SchedulingError); ok {
		return schedErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a SchedulingError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if schedErr, ok := err.(*SchedulingError); ok {
		return schedErr.Code
	}
	return defaultCode
}
