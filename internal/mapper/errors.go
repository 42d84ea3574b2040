package mapper

import (
	"errors"
	"fmt"
)

// ValidationError reports a field that is missing or failed coercion.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

func missingField(name string) *ValidationError {
	return &ValidationError{
		Field:   name,
		Message: name + " is required",
	}
}

func nullField(name string) *ValidationError {
	return &ValidationError{
		Field:   name,
		Message: name + " cannot be null",
	}
}

func invalidField(f Field, value any, cause error) *ValidationError {
	msg := fmt.Sprintf("%s must be a valid %s", f.Name, f.Type)
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &ValidationError{
		Field:   f.Name,
		Message: msg,
		Value:   value,
	}
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}
