// ABOUTME: Default implementations for library dependencies
// ABOUTME: Provides factory functions for creating default service implementations

package pagereader

import (
	"os"
	"time"

	"pagereader-api/core/interfaces"
	"pagereader-api/infrastructure/cache/memory"
	"pagereader-api/infrastructure/cache/redis"
	"pagereader-api/infrastructure/cache/sqlite"
	"pagereader-api/infrastructure/extraction/readability"
	"pagereader-api/infrastructure/fetch/colly"
	"pagereader-api/infrastructure/http/standard"
	"pagereader-api/infrastructure/logger/structured"
	pkgconfig "pagereader-api/pkg/config"
)

// DefaultMemoryCache creates a default in-memory cache
func DefaultMemoryCache() interfaces.Cache {
	return memory.NewMemoryCache(10 * time.Minute)
}

// DefaultSQLiteCache creates a SQLite cache at filePath
func DefaultSQLiteCache(filePath string, logger interfaces.Logger) (*sqlite.Client, error) {
	return sqlite.NewSQLiteCache(filePath, logger)
}

// DefaultLogger creates a text logger on stderr at info level
func DefaultLogger() interfaces.Logger {
	return structured.NewWithWriter(os.Stderr, structured.Options{Level: "info", Format: "text"})
}

// QuietLogger creates a logger that discards all output
func QuietLogger() interfaces.Logger {
	return interfaces.NopLogger{}
}

// DefaultExtractor creates the readability article extractor
func DefaultExtractor() interfaces.ArticleExtractor {
	return readability.NewExtractor()
}

// DefaultFetcher creates a colly fetcher that retries transient failures
func DefaultFetcher(timeout time.Duration, logger interfaces.Logger) interfaces.DocumentFetcher {
	fetcher := colly.NewFetcher(timeout, logger)
	fetcher.SetTransport(standard.NewRetryTransport(nil, 3))
	return fetcher
}

// CacheOption represents cache configuration options
type CacheOption struct {
	Type     CacheType
	FilePath string // For SQLite cache
	Redis    pkgconfig.RedisConfig
}

// CacheType represents the type of cache
type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeSQLite CacheType = "sqlite"
	CacheTypeRedis  CacheType = "redis"
)

// WithCacheOption creates a cache based on the provided options. SQLite and
// Redis caches are closed by Client.Close.
func WithCacheOption(opt CacheOption) Option {
	return func(c *Config) error {
		switch opt.Type {
		case CacheTypeMemory:
			c.Cache = DefaultMemoryCache()
		case CacheTypeSQLite:
			if opt.FilePath == "" {
				opt.FilePath = "pagereader_cache.db"
			}
			cache, err := DefaultSQLiteCache(opt.FilePath, c.logger())
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to open sqlite cache").
					WithCause(err).
					WithContext("path", opt.FilePath)
			}
			c.Cache = cache
			c.closers = append(c.closers, cache)
		case CacheTypeRedis:
			cache, err := redis.NewRedisCache(opt.Redis)
			if err != nil {
				return NewError(ErrorTypeConfiguration, "failed to connect to redis").
					WithCause(err).
					WithContext("address", opt.Redis.Address)
			}
			c.Cache = cache
			c.closers = append(c.closers, cache)
		default:
			return NewError(ErrorTypeConfiguration, "invalid cache type").
				WithContext("type", string(opt.Type))
		}
		return nil
	}
}

// WithDefaultDependencies fills every unset dependency with its default
func WithDefaultDependencies() Option {
	return func(c *Config) error {
		c.fillDefaults()
		return nil
	}
}

// WithQuietMode configures the client to suppress all log output
func WithQuietMode() Option {
	return func(c *Config) error {
		c.Logger = QuietLogger()
		return nil
	}
}
