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

// ErrForbidden indicates that the caller is known but lacks permission for the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that the caller credential could not be resolved.
var ErrUnauthorized = errors.New("unauthorized")

// ErrEmptyGroup indicates that a group had no members when an expense was split across it.
var ErrEmptyGroup = errors.New("group has no members")

// ErrConflict indicates that a concurrent mutation was detected.
var ErrConflict = errors.New("concurrent modification detected")

// ErrRateLimited indicates that the caller exceeded the request rate.
var ErrRateLimited = errors.New("rate limit exceeded")

// ErrPersistence indicates a failure of the underlying transactional store.
var ErrPersistence = errors.New("persistence failure")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code and a human readable message
// alongside the wrapped cause.
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

// NewAppError creates an AppError. A 5xx code with a cause that is not already
// classified is tagged as ErrPersistence so raw driver errors never escape unclassified.
func NewAppError(code int, message string, err error) *AppError {
	if code >= http.StatusInternalServerError && !isClassified(err) {
		if err == nil {
			err = ErrPersistence
		} else {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a not-found AppError with the given message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError creates a validation AppError with the given message.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewForbiddenError creates a forbidden AppError with the given message.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// NewConflictError creates a conflict AppError with the given message.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// NewPersistenceError wraps a store failure.
func NewPersistenceError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

var kinds = []struct {
	err  error
	kind string
	code int
}{
	{ErrValidation, "validation_error", http.StatusBadRequest},
	{ErrNotFound, "not_found", http.StatusNotFound},
	{ErrForbidden, "forbidden", http.StatusForbidden},
	{ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
	{ErrEmptyGroup, "empty_group", http.StatusUnprocessableEntity},
	{ErrConflict, "conflict", http.StatusConflict},
	{ErrDuplicate, "duplicate", http.StatusConflict},
	{ErrRateLimited, "rate_limited", http.StatusTooManyRequests},
	{ErrPersistence, "persistence_error", http.StatusInternalServerError},
	{ErrInternal, "internal_error", http.StatusInternalServerError},
}

func isClassified(err error) bool {
	if err == nil {
		return false
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return true
		}
	}
	return false
}

// Kind returns the stable kind string for err. Unclassified errors are
// reported as persistence errors.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "persistence_error"
}

// StatusCode maps err to the HTTP status used by the handlers.
func StatusCode(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return http.StatusInternalServerError
}
