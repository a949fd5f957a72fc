// internal/common/errors/errors.go

// Package errors provides standardized error handling for the admission
// portal client engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Session errors. Both are fatal to the current session: the cached
	// token is cleared and the user is sent back to login.
	ErrCodeAuthRequired        ErrorCode = "AUTH_REQUIRED"
	ErrCodeNoInstituteAssigned ErrorCode = "NO_INSTITUTE_ASSIGNED"

	// Local, recoverable errors. No network call was made.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeTermsNotAccepted ErrorCode = "TERMS_NOT_ACCEPTED"
	ErrCodeImmutableRecord  ErrorCode = "IMMUTABLE_RECORD"

	// Network / remote errors. Local state is left untouched so the user
	// may retry unchanged.
	ErrCodeTransportFailure    ErrorCode = "TRANSPORT_FAILURE"
	ErrCodeOrphanedSubmission  ErrorCode = "ORPHANED_SUBMISSION"
	ErrCodeSubmissionInFlight  ErrorCode = "SUBMISSION_IN_FLIGHT"
	ErrCodePayloadSchemaFailed ErrorCode = "PAYLOAD_SCHEMA_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Fatal     bool                   `json:"fatal"` // ends the session when true
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewAuthRequiredError reports a missing or rejected bearer token.
func NewAuthRequiredError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAuthRequired,
		Message:   "Sign in to continue",
		Details:   details,
		Retryable: false,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoInstituteAssignedError reports a profile without any program.
func NewNoInstituteAssignedError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoInstituteAssigned,
		Message:   "No program is assigned to this account",
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Fatal:     true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError aggregates the rule-table result. The messages
// are kept in Metadata so the notice builder can surface all of them.
func NewValidationFailedError(messages []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Please correct the highlighted fields",
		Details:   fmt.Sprintf("%d validation errors", len(messages)),
		Retryable: false,
		Metadata:  map[string]interface{}{"messages": messages},
		Timestamp: time.Now().UTC(),
	}
}

// NewTermsNotAcceptedError reports a final submit without the
// terms-acknowledgment flag. Raised before any payload is built.
func NewTermsNotAcceptedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeTermsNotAccepted,
		Message:   "Accept the declaration before final submission",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewImmutableRecordError reports an edit or submit attempt on a
// final-submitted record.
func NewImmutableRecordError(applicationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeImmutableRecord,
		Message:   "This application was already submitted and can no longer be changed",
		Details:   fmt.Sprintf("applicationId: %s", applicationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportFailureError wraps any network or server-side failure.
func NewTransportFailureError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailure,
		Message:   "Could not reach the admission portal. Please try again",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewServerMessageError wraps an application-level failure whose message
// the server wants shown to the user verbatim.
func NewServerMessageError(operation, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportFailure,
		Message:   message,
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOrphanedSubmissionError reports a creation that succeeded server-side
// but whose id could not be resolved even after re-listing. Local state is
// deliberately not advanced so a possibly duplicated record is not masked.
func NewOrphanedSubmissionError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOrphanedSubmission,
		Message:   "The submission was received but could not be confirmed. Contact the admission office",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionInFlightError reports a second submit while one is pending.
func NewSubmissionInFlightError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionInFlight,
		Message:   "A submission is already in progress",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadSchemaError reports an outbound payload that failed the
// embedded JSON Schema check before any request was sent.
func NewPayloadSchemaError(section, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadSchemaFailed,
		Message:   "The application data could not be encoded",
		Details:   fmt.Sprintf("section: %s, %s", section, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// AsStandard extracts a *StandardError from err, wrapping unknown errors
// as a transport failure so callers always see the taxonomy.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewTransportFailureError("unknown", err)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsFatal reports whether err ends the current session.
func IsFatal(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Fatal
	}
	return false
}

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeAuthRequired, ErrCodeNoInstituteAssigned:
		return "session"
	case ErrCodeValidationFailed, ErrCodeTermsNotAccepted, ErrCodeImmutableRecord, ErrCodePayloadSchemaFailed:
		return "local"
	case ErrCodeTransportFailure, ErrCodeOrphanedSubmission, ErrCodeSubmissionInFlight:
		return "remote"
	default:
		return "unknown"
	}
}
