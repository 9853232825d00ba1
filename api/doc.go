// Package api provides the HTTP API layer for the page reader.
// It uses the Huma framework to provide automatic OpenAPI documentation,
// request/response validation, and a clean handler interface.
//
// # Architecture
//
// The API package is structured as follows:
//
// - server.go: Huma API configuration and setup
// - handlers/: HTTP request handlers
// - dto/: Data Transfer Objects for requests and responses
// - middleware/: HTTP middleware for cross-cutting concerns
//
// # Endpoints
//
// Stateless document endpoints accept either a URL to fetch or the page
// markup itself:
//
//	POST /classify   article or listing verdict with its signals
//	POST /article    sanitized article body, word count and reading time
//	POST /listing    sections of links found on a listing page
//	POST /sanitize   cleaned HTML fragment
//
// Session endpoints drive a page loaded in a headless browser:
//
//	POST   /sessions                 open a page, optionally activating reader mode
//	GET    /sessions/{id}/state      activation and pagination state
//	POST   /sessions/{id}/toggle     activate or deactivate
//	POST   /sessions/{id}/navigate   next, prev or goto
//	PUT    /sessions/{id}/settings   save settings and lay out again
//	POST   /sessions/{id}/resize     debounced re-layout
//	DELETE /sessions/{id}            restore the page and close the tab
//
// # Usage Example
//
//	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
//	    Logger:           logger,
//	    RateLimitEnabled: true,
//	    RateLimit:        5,
//	    RateBurst:        10,
//	})
//
//	handlers.NewReaderHandler(pipeline, fetcher, flags, logger).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":8000", router)
//
// # Error Handling
//
// The API uses a consistent error format based on RFC 7807:
//
//	{
//	    "status": 422,
//	    "title": "Unprocessable Entity",
//	    "detail": "No listing sections found"
//	}
//
// Domain errors are mapped to HTTP status codes in handlers/errors.go.
package api
