// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, fetching, extraction, the browser and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory cache on patrickmn/go-cache
// - cache/redis: Redis-based cache for settings shared across instances
// - cache/sqlite: SQLite-backed cache for durable local state
// - extraction/readability: Article extraction on go-shiori/go-readability
// - fetch/colly: Document fetching with gocolly/colly
// - http/standard: Retrying http.RoundTripper used under the fetcher
// - logger/structured: logrus logger with optional lumberjack rotation
// - surface/browser: Headless Chrome tabs driven through go-rod
//
// # Cache Implementations
//
// Memory Cache Example:
//
//	cache := memory.NewMemoryCache(10 * time.Minute)
//	err := cache.Set(ctx, "key", []byte("value"), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address: "localhost:6379",
//	    DB:      0,
//	})
//
// SQLite Cache Example:
//
//	cache, err := sqlite.NewSQLiteCache("pagereader.db", logger)
//	defer cache.Close()
//
// # Fetching
//
// The fetcher only accepts HTML responses. Transient upstream failures are
// retried by the transport:
//
//	fetcher := colly.NewFetcher(15*time.Second, logger)
//	fetcher.SetTransport(standard.NewRetryTransport(nil, 3))
//	doc, err := fetcher.Fetch(ctx, "https://example.com/story")
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := structured.New(structured.Options{Level: "info", Format: "json"})
//	logger.Info("Activated reader", map[string]interface{}{
//	    "url":  "https://example.com/story",
//	    "mode": "article",
//	})
package infrastructure
