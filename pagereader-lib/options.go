// ABOUTME: Configuration options for the page reader library client
// ABOUTME: Provides functional options pattern for flexible client configuration

package pagereader

import (
	"time"

	"pagereader-api/core/config"
	"pagereader-api/core/interfaces"
)

// Option is a functional option for configuring the client
type Option func(*Config) error

// WithCache sets a custom cache implementation for settings and positions
func WithCache(cache interfaces.Cache) Option {
	return func(c *Config) error {
		c.Cache = cache
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithExtractor replaces the readability extractor
func WithExtractor(extractor interfaces.ArticleExtractor) Option {
	return func(c *Config) error {
		c.Extractor = extractor
		return nil
	}
}

// WithFetcher sets the fetcher used when a page is requested without markup.
// A nil fetcher disables fetching.
func WithFetcher(fetcher interfaces.DocumentFetcher) Option {
	return func(c *Config) error {
		c.Fetcher = fetcher
		c.fetcherSet = true
		return nil
	}
}

// WithFetchTimeout sets the timeout of the default fetcher
func WithFetchTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return NewError(ErrorTypeConfiguration, "fetch timeout must be positive").
				WithContext("timeout", timeout.String())
		}
		c.FetchTimeout = timeout
		return nil
	}
}

// WithHeuristics replaces the classification and extraction thresholds
func WithHeuristics(heuristics config.Heuristics) Option {
	return func(c *Config) error {
		c.Heuristics = heuristics
		return nil
	}
}

// WithHeuristicsOptions adjusts individual thresholds on top of the current ones
func WithHeuristicsOptions(opts ...config.HeuristicsOption) Option {
	return func(c *Config) error {
		for _, opt := range opts {
			opt(&c.Heuristics)
		}
		return nil
	}
}

// defaultConfig returns the default client configuration. The cache, logger,
// extractor and fetcher are created lazily so options can replace them first.
func defaultConfig() Config {
	return Config{
		Heuristics:   config.DefaultHeuristics(),
		FetchTimeout: 15 * time.Second,
	}
}
