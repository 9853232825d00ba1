// ABOUTME: Error types and handling for the page reader library
// ABOUTME: Provides structured errors with context for library operations

package pagereader

import (
	"errors"
	"fmt"

	readererrors "pagereader-api/core/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNetwork indicates the page could not be fetched
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeExtraction indicates no readable article could be extracted
	ErrorTypeExtraction ErrorType = "extraction"

	// ErrorTypeEmptyListing indicates the listing extractor found no sections
	ErrorTypeEmptyListing ErrorType = "empty_listing"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "internal"

	// ErrorTypeConfiguration indicates a configuration error
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Error represents a structured error from the library
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error with the given type and message
func NewError(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

// WithCause adds a cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Common errors
var (
	// ErrClientClosed is returned when operations are attempted on a closed client
	ErrClientClosed = NewError(ErrorTypeInternal, "client is closed")

	// ErrNoFetcher is returned when a page is requested by URL alone and fetching is disabled
	ErrNoFetcher = NewError(ErrorTypeConfiguration, "no fetcher configured, pass the page markup")
)

// wrap converts core errors into library errors, keeping the cause
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var libErr *Error
	if errors.As(err, &libErr) {
		return err
	}

	switch {
	case readererrors.IsValidation(err):
		return NewError(ErrorTypeValidation, "invalid input").WithCause(err)
	case readererrors.IsExternalAPI(err):
		return NewError(ErrorTypeNetwork, "failed to fetch page").WithCause(err)
	case readererrors.IsExtraction(err):
		return NewError(ErrorTypeExtraction, "no readable content").WithCause(err)
	case readererrors.IsListingEmpty(err):
		return NewError(ErrorTypeEmptyListing, "no listing sections found").WithCause(err)
	}
	return NewError(ErrorTypeInternal, "operation failed").WithCause(err)
}

func isType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	return isType(err, ErrorTypeNetwork)
}

// IsExtractionError checks if article extraction failed
func IsExtractionError(err error) bool {
	return isType(err, ErrorTypeExtraction)
}

// IsEmptyListingError checks if a listing had no sections
func IsEmptyListingError(err error) bool {
	return isType(err, ErrorTypeEmptyListing)
}
