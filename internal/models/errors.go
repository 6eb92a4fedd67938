package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist for the user
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique record already exists
	ErrConflict = errors.New("record already exists")
)

// ValidationError reports a malformed field on an incoming record
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field
func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
