// Package errors provides the pricing error taxonomy.
package errors

import (
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidInput indicates a caller-supplied value is unusable
	// (non-positive diver or fill counts, malformed amounts).
	TypeInvalidInput Type = "INVALID_INPUT"

	// TypeCurrencyMismatch indicates arithmetic across incompatible currencies.
	TypeCurrencyMismatch Type = "CURRENCY_MISMATCH"

	// TypeMissingVendorAgreement indicates no applicable agreement exists
	// for a scope at the requested instant.
	TypeMissingVendorAgreement Type = "MISSING_VENDOR_AGREEMENT"

	// TypeMissingPrice indicates price resolution exhausted every tier.
	TypeMissingPrice Type = "MISSING_PRICE"

	// TypeConfiguration indicates an agreement or price record exists but
	// its terms are malformed or incomplete. A data-entry problem, not a
	// usage error.
	TypeConfiguration Type = "CONFIGURATION_ERROR"

	// TypeUnavailable indicates the remote pricing backend is unreachable.
	TypeUnavailable Type = "SERVICE_UNAVAILABLE"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a pricing error with structured context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// TypeOf returns the taxonomy type of an error, or TypeInternal for
// errors that did not originate in this package.
func TypeOf(err error) Type {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return TypeInternal
}

// InvalidInput creates an input validation error
func InvalidInput(message string) *Error {
	return New(TypeInvalidInput, message)
}

// CurrencyMismatch creates a currency mismatch error carrying both codes
func CurrencyMismatch(op, left, right string) *Error {
	return Newf(TypeCurrencyMismatch, "cannot %s %s and %s", op, left, right).
		WithContext("left_currency", left).
		WithContext("right_currency", right)
}

// MissingVendorAgreement creates a missing agreement error carrying the
// scope the lookup was performed against.
func MissingVendorAgreement(scopeType, scopeRef string) *Error {
	return Newf(TypeMissingVendorAgreement, "no vendor agreement found for %s:%s", scopeType, scopeRef).
		WithContext("scope_type", scopeType).
		WithContext("scope_ref", scopeRef)
}

// MissingPrice creates a missing price error carrying the catalog item context
func MissingPrice(catalogItemID, context string) *Error {
	return Newf(TypeMissingPrice, "no price found for catalog item %s (%s)", catalogItemID, context).
		WithContext("catalog_item_id", catalogItemID)
}

// Configuration creates a configuration error for a malformed record field
func Configuration(message, fieldPath string) *Error {
	return New(TypeConfiguration, message).WithContext("field_path", fieldPath)
}

// Unavailable creates a service unavailable error
func Unavailable(message string, cause error) *Error {
	return Wrap(TypeUnavailable, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
