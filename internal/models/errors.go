package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned for any failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound means the referenced record or token does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable wraps every failure of the underlying database.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError rejects a write because of bad input or a uniqueness violation.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"error"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
