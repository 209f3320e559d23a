package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrDocumentUnreadable marks a document that could not be opened or
	// decoded. It is the only error that crosses the processor boundary;
	// everything else degrades the result instead.
	ErrDocumentUnreadable = errors.New("document unreadable")

	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Unreadable wraps cause as a DocumentUnreadable failure for path.
func Unreadable(path string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrDocumentUnreadable, path, cause)
}
