package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrFetch              = errors.New("fetch failed")
	ErrPersistence        = errors.New("persistence failed")
	ErrPartialPersistence = errors.New("invoice saved without entries")
	ErrAlreadyInProgress  = errors.New("invoice generation already in progress")
	ErrSessionBusy        = errors.New("draft is being changed by another request")
	ErrNotGenerated       = errors.New("invoice has not been generated")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidTransition  = errors.New("invalid workflow transition")
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrPlaceNotFound      = errors.New("place not found")
)

// ValidationError reports bad user input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PartialPersistenceError means the invoice header was written (and its number
// consumed) but the entries were not.
type PartialPersistenceError struct {
	InvoiceNumber int64
	Err           error
}

func (e *PartialPersistenceError) Error() string {
	return fmt.Sprintf("invoice %d generated, but failed to save work entries: %v", e.InvoiceNumber, e.Err)
}

func (e *PartialPersistenceError) Unwrap() []error {
	return []error{ErrPartialPersistence, e.Err}
}
