package constants

import (
	"fmt"
	"net/http"
	"strings"
)

// CodedError is an error that knows which HTTP status it maps to.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound           = NewCodedError("record not found", http.StatusNotFound)
	ErrNotFound             = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized         = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrMissingAuthToken     = NewCodedError("missing bearer token", http.StatusUnauthorized)
	ErrInvalidAuthToken     = NewCodedError("invalid or expired token", http.StatusUnauthorized)
	ErrForbidden            = NewCodedError("forbidden", http.StatusForbidden)
	ErrInvalidPayload       = NewCodedError("invalid payload", http.StatusBadRequest)
	ErrConsistencyViolation = NewCodedError("inconsistent data detected", http.StatusBadRequest)
	ErrAlreadyLocked        = NewCodedError("unit already submitted and locked", http.StatusConflict)
	ErrInternal             = NewCodedError("internal error", http.StatusInternalServerError)
	ErrDepartmentNotFound   = NewCodedError("department not found", http.StatusNotFound)
	ErrCommuneNotFound      = NewCodedError("commune not found", http.StatusNotFound)
	ErrCandidateNotFound    = NewCodedError("candidate not found", http.StatusNotFound)
	ErrRoleNotAllowed       = NewCodedError("role is not allowed to access departments", http.StatusForbidden)
	ErrDepartmentOutOfScope = NewCodedError("department is outside of the user scope", http.StatusForbidden)
)

// ValidationError carries every consistency rule a tally violated.
// The caller may resubmit with force_validation to bypass it.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConsistencyViolation.Error(), strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrConsistencyViolation
}

// LockedError reports that a unit already has a participation record.
type LockedError struct {
	Level string
	Code  int64
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%s %d already submitted and locked", e.Level, e.Code)
}

func (e *LockedError) Unwrap() error {
	return ErrAlreadyLocked
}

// PayloadError describes why a request body was rejected before reaching the core.
type PayloadError struct {
	Reason string
}

func NewPayloadError(format string, args ...any) *PayloadError {
	return &PayloadError{Reason: fmt.Sprintf(format, args...)}
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPayload.Error(), e.Reason)
}

func (e *PayloadError) Unwrap() error {
	return ErrInvalidPayload
}
