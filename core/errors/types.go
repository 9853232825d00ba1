// ABOUTME: Custom error types for the reader core
// ABOUTME: Every failure here degrades to a "feature unavailable" notification, none is fatal

package errors

import (
	"errors"
	"fmt"
)

// ErrLayoutDegenerate is reported (never returned as fatal) when the viewport
// or content has zero size and pagination falls back to a single page
var ErrLayoutDegenerate = errors.New("layout degenerate: zero-size viewport or content")

// ErrActivationInProgress is returned when an activation is requested while
// another is still running on the same session
var ErrActivationInProgress = errors.New("activation already in progress")

// ErrTooManySessions is returned when a session registry is at its limit
var ErrTooManySessions = errors.New("too many open sessions")

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from a remote document host
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// ExtractionError means the extraction library returned nothing or failed
type ExtractionError struct {
	URL   string
	Cause error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("article extraction failed for %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("article extraction failed for %s", e.URL)
}

// Unwrap returns the underlying cause
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// ListingEmptyError means the listing extractor found zero sections, even
// after its fallback pass
type ListingEmptyError struct {
	URL string
}

// Error implements the error interface
func (e *ListingEmptyError) Error() string {
	return fmt.Sprintf("no listing sections found on %s", e.URL)
}

// PatternError wraps a removal pattern the pattern engine could not compile.
// It is logged and skipped, never escalated.
type PatternError struct {
	Pattern string
	Cause   error
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("unsupported pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying cause
func (e *PatternError) Unwrap() error {
	return e.Cause
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsExtraction checks if an error is an ExtractionError
func IsExtraction(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

// IsListingEmpty checks if an error is a ListingEmptyError
func IsListingEmpty(err error) bool {
	var emptyErr *ListingEmptyError
	return errors.As(err, &emptyErr)
}

// IsPattern checks if an error is a PatternError
func IsPattern(err error) bool {
	var patternErr *PatternError
	return errors.As(err, &patternErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
