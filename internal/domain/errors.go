// Package domain contains the invoice model, totals arithmetic and money
// formatting.
//
// Failures are reported with three error kinds that adapters translate to
// their own vocabulary (HTTP status, CLI exit code). Match them with the Is
// helpers or errors.Is against the sentinels.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing line item, logo or similar.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks input that cannot be used as given.
	ErrValidation = errors.New("validation failed")
	// ErrUnavailable marks a dependency, such as the logo host, that could
	// not be reached.
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names what was looked up. ID may be empty.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError reports that entity id does not exist.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError describes one rejected field. Field uses the external name
// (JSON key or config path) so callers can show it as is.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError rejects field with message.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue rejects field and keeps the offending value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError names the dependency that failed. Reason may describe
// internal infrastructure and is not meant for end users.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("service %q unavailable", e.Service)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError reports that service could not be used.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err is or wraps ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsUnavailable reports whether err is or wraps ErrUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
