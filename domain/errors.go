package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeValidation     ErrorCode = "VALIDATION"
	ErrCodeDuplicateTitle ErrorCode = "DUPLICATE_TITLE"
	ErrCodeUnknownUser    ErrorCode = "UNKNOWN_USER"
	ErrCodeConflict       ErrorCode = "CONFLICT"
	ErrCodeNoUsers        ErrorCode = "NO_USERS"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal       ErrorCode = "INTERNAL"
)

// Error is a domain-level error. Details, when set, carries structured data
// the caller needs to act on the failure (e.g. the current task version on a
// conflict).
type Error struct {
	Code    ErrorCode
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ConflictDetails is attached to a CONFLICT error so the rejected editor can
// re-merge against the committed state and retry.
type ConflictDetails struct {
	CurrentVersion TaskView `json:"current_version"`
	ConflictFields []string `json:"conflict_fields"`
}

// NewConflictError reports a contended update carrying the stored version.
func NewConflictError(details ConflictDetails) *Error {
	return &Error{
		Code:    ErrCodeConflict,
		Message: "task was modified by another user",
		Details: details,
	}
}

// Common domain errors.
var (
	ErrTaskNotFound    = NewError(ErrCodeNotFound, "task not found")
	ErrUserNotFound    = NewError(ErrCodeUnknownUser, "user not found")
	ErrSessionNotFound = NewError(ErrCodeUnauthorized, "session not found")
	ErrNoUsers         = NewError(ErrCodeNoUsers, "no users available for assignment")
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrEmailTaken      = NewError(ErrCodeConflict, "email already registered")
	ErrInvalidPayload  = NewError(ErrCodeValidation, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
