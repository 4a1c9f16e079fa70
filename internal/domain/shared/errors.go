// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrExpired         = errors.New("expired")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "player", "offer", "user"
	Op      string // Operation that failed, e.g., "Create", "RecordResult"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// User domain errors
var (
	ErrUserNotFound       = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists  = NewDomainError("user", "Create", ErrAlreadyExists, "username already taken")
	ErrInvalidCredentials = NewDomainError("user", "Authenticate", ErrUnauthorized, "invalid username or password")
	ErrUserInactive       = NewDomainError("user", "Authenticate", ErrForbidden, "user account is inactive")
)

// Offer domain errors
var (
	ErrOfferNotFound     = NewDomainError("offer", "Find", ErrNotFound, "offer not found")
	ErrOfferDateOrder    = NewDomainError("offer", "Validate", ErrInvalidInput, "end date must be after start date")
	ErrOfferAlreadyLive  = NewDomainError("offer", "Activate", ErrInvalidState, "offer is already active")
	ErrOfferNotLive      = NewDomainError("offer", "Deactivate", ErrInvalidState, "offer is not active")
	ErrInvalidOfferType  = NewDomainError("offer", "Validate", ErrInvalidInput, "invalid offer type")
	ErrInvalidOfferColor = NewDomainError("offer", "Validate", ErrInvalidFormat, "color must be a hex code like #1565C0")
)

// Auth errors
var (
	ErrTokenInvalid  = NewDomainError("auth", "Verify", ErrUnauthorized, "token is invalid or expired")
	ErrTokenRevoked  = NewDomainError("auth", "Verify", ErrUnauthorized, "token has been revoked")
	ErrAdminRequired = NewDomainError("auth", "Authorize", ErrForbidden, "moderator privileges required")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthorized checks if the error is an authentication error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the error is an authorization error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
