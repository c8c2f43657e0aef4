package profiles

import (
	"errors"
	"fmt"
)

// Domain errors for profiles
var (
	// ErrProfileNotFound is returned when a profile doesn't exist or is not public
	ErrProfileNotFound = errors.New("profile not found")

	// ErrGitHubUsernameTaken is returned when another profile already links the GitHub username
	ErrGitHubUsernameTaken = errors.New("github username is already linked to another profile")

	// ErrUnauthenticated is returned when a write is attempted without a user id
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError wraps input validation errors with field details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

// IsConflict checks if error is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrGitHubUsernameTaken)
}
