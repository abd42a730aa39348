package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the acting user lacks the required role for the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrConflict indicates that the current state of a resource forbids the operation.
var ErrConflict = errors.New("operation conflicts with current state")

// ErrInternal indicates an unexpected infrastructure or programming failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level failure with an HTTP-ish code and a message.
// Repositories use it so that service and handler layers never see driver errors directly.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NewAppError creates an AppError with the given code, message, and underlying error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// DomainError represents a lifecycle-guard or invariant violation with a stable,
// machine-readable code callers can branch on. It unwraps to ErrConflict so generic
// error mapping still lands on the right transport status.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return ErrConflict
}

// NewDomainError creates a DomainError with a stable code and a human-readable message.
func NewDomainError(code string, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsDomainError extracts a DomainError from an error chain, if present.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}
