package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource
// (an active invoice already exists, a stale item version, ...).
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition indicates an invoice state change that the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrStaleState indicates a conditional update lost a race against a concurrent writer.
var ErrStaleState = fmt.Errorf("%w: stale state", ErrConflict)

// ErrDeltaZero indicates a stock mutation with a zero delta.
var ErrDeltaZero = fmt.Errorf("%w: stock delta must not be zero", ErrValidation)

// ErrIntegrity indicates the stock ledger disagrees with itself or with the item counter.
// It must never be auto-repaired.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrForbidden indicates the caller lacks the capability for the requested operation.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal is returned when the cause should not leak to callers.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it for infrastructure failures.
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
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewConflictError wraps ErrConflict with a message.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// TransitionError reports a rejected invoice transition together with the
// status the invoice was actually in.
type TransitionError struct {
	InvoiceID string
	Current   string
	Requested string
	Stale     bool
}

func (e *TransitionError) Error() string {
	if e.Stale {
		return fmt.Sprintf("invoice %s changed concurrently: now %s, cannot move to %s", e.InvoiceID, e.Current, e.Requested)
	}
	return fmt.Sprintf("invoice %s is %s and cannot move to %s", e.InvoiceID, e.Current, e.Requested)
}

// Is lets errors.Is match ErrInvalidTransition, and ErrStaleState/ErrConflict for lost races.
func (e *TransitionError) Is(target error) bool {
	if target == ErrInvalidTransition {
		return true
	}
	if e.Stale {
		return target == ErrStaleState || target == ErrConflict
	}
	return false
}

// StatusCode maps an error onto the HTTP status handlers should answer with.
func StatusCode(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrIntegrity):
		return http.StatusInternalServerError
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
