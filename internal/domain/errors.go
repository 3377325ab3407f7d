package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain-specific errors
var (
	// ErrInvalidInput is returned when the URL to shorten is missing or blank
	ErrInvalidInput = errors.New("URL is required")

	// ErrNotFound is returned when a short code doesn't exist
	ErrNotFound = errors.New("URL not found")

	// ErrDuplicateKey is returned by a repository when the short code is already stored.
	// The shortening service retries on it; it never reaches a client.
	ErrDuplicateKey = errors.New("short code already exists")

	// ErrCodeGenerationExhausted is returned when every generated code collided
	ErrCodeGenerationExhausted = errors.New("failed to generate a unique short code")

	// ErrStorage marks store connectivity, timeout and query failures
	ErrStorage = errors.New("storage error")
)

// StorageError carries the failed repository operation and the key it was working on.
type StorageError struct {
	Op  string
	Key string
	Err error
}

// NewStorageError wraps a driver error raised while running op on key
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match any StorageError
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// AppError wraps errors with the HTTP status they should be rendered with
type AppError struct {
	Err        error  // Original error
	Message    string // User-friendly message
	StatusCode int    // HTTP status code
	Internal   bool   // Whether to log as internal error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a 404 error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

// NewValidationError creates a 400 validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInternalError creates a 500 internal server error
func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
		Internal:   true,
	}
}

// AsAppError classifies any error coming out of the service layer.
func AsAppError(err error) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ErrInvalidInput):
		return NewValidationError(ErrInvalidInput.Error())
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError("URL")
	default:
		return NewInternalError(err)
	}
}
