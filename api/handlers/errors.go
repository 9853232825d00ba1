// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"context"
	stderrors "errors"

	"pagereader-api/core/errors"

	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case errors.IsValidation(err):
		return huma.Error400BadRequest(err.Error())
	case errors.IsExtraction(err), errors.IsListingEmpty(err):
		// the page was reachable but holds nothing the reader can show
		return huma.Error422UnprocessableEntity(err.Error())
	case stderrors.Is(err, errors.ErrActivationInProgress):
		return huma.Error409Conflict(err.Error())
	case stderrors.Is(err, errors.ErrTooManySessions):
		return huma.Error429TooManyRequests("Too many open sessions")
	case stderrors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("Timed out processing the page")
	}

	var apiErr *errors.ExternalAPIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode >= 500:
			return huma.Error503ServiceUnavailable("External service error", err)
		case apiErr.StatusCode == 429:
			return huma.Error429TooManyRequests("Rate limited by external service")
		case apiErr.StatusCode >= 400:
			return huma.Error400BadRequest("External service request error", err)
		default:
			return huma.Error500InternalServerError("Unexpected external service response", err)
		}
	}

	return huma.Error500InternalServerError("Internal server error", err)
}
