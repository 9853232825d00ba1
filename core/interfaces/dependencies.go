// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for collaborators required by the reader core

package interfaces

// Dependencies holds all external collaborators required by the reader core
type Dependencies struct {
	// Cache backs the settings and positions store
	Cache Cache

	// Extractor is the third-party article extraction library
	Extractor ArticleExtractor

	// Fetcher loads documents for URL-only requests
	Fetcher DocumentFetcher

	// Logger provides structured logging
	Logger Logger

	// Notifier surfaces non-fatal failures to the user
	Notifier Notifier
}

// Log returns the configured logger or a no-op logger
func (d Dependencies) Log() Logger {
	if d.Logger == nil {
		return NopLogger{}
	}
	return d.Logger
}
