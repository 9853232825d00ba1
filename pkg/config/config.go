// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, stores, logging and the browser surface

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains the synced and local store backends
	Cache CacheConfig

	// Log contains logger configuration
	Log LogConfig

	// Browser contains the headless browser surface configuration
	Browser BrowserConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the sustained requests per second allowed per client
	RateLimit float64

	// RateBurst is the burst size allowed per client
	RateBurst int

	// AllowedOrigins is the CORS origin allow list
	AllowedOrigins []string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type is the backend for synced settings (memory/redis/sqlite)
	Type string

	// LocalType is the backend for per-device data. Empty means same as Type.
	LocalType string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often expired entries are purged
	CleanupInterval time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Format string

	// File enables rotated file output when set
	File string
}

// BrowserConfig holds headless browser configuration
type BrowserConfig struct {
	// ControlURL connects to a running browser. Empty launches one when Launch is set.
	ControlURL string
	Launch     bool

	Width  int
	Height int
	DPR    float64

	// MaxSessions caps concurrently open reader sessions
	MaxSessions int
}

var validBackends = map[string]bool{"memory": true, "redis": true, "sqlite": true}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8000"),
			RateLimit:      getEnvAsFloatOrDefault("RATE_LIMIT_RPS", 5),
			RateBurst:      getEnvAsIntOrDefault("RATE_LIMIT_BURST", 10),
			AllowedOrigins: getEnvAsListOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Cache: CacheConfig{
			Type:      getEnvOrDefault("CACHE_TYPE", "memory"),
			LocalType: getEnvOrDefault("LOCAL_CACHE_TYPE", ""),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "pagereader.db"),
			},
			Memory: MemoryConfig{
				CleanupInterval: time.Duration(getEnvAsIntOrDefault("MEMORY_CACHE_CLEANUP_SECONDS", 600)) * time.Second,
			},
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
			File:   getEnvOrDefault("LOG_FILE", ""),
		},
		Browser: BrowserConfig{
			ControlURL:  getEnvOrDefault("BROWSER_CONTROL_URL", ""),
			Launch:      getEnvOrDefault("BROWSER_LAUNCH", "false") == "true",
			Width:       getEnvAsIntOrDefault("BROWSER_WIDTH", 1280),
			Height:      getEnvAsIntOrDefault("BROWSER_HEIGHT", 800),
			DPR:         getEnvAsFloatOrDefault("BROWSER_DPR", 1),
			MaxSessions: getEnvAsIntOrDefault("BROWSER_MAX_SESSIONS", 8),
		},
	}

	return cfg, nil
}

// LocalBackend returns the backend used for per-device data
func (c CacheConfig) LocalBackend() string {
	if c.LocalType == "" {
		return c.Type
	}
	return c.LocalType
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma separated variable
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit <= 0 || c.Server.RateBurst < 1 {
		return errors.New("rate limit and burst must be positive")
	}

	if !validBackends[c.Cache.Type] {
		return errors.New("cache type must be 'redis', 'sqlite' or 'memory'")
	}

	if !validBackends[c.Cache.LocalBackend()] {
		return errors.New("local cache type must be 'redis', 'sqlite' or 'memory'")
	}

	usesRedis := c.Cache.Type == "redis" || c.Cache.LocalBackend() == "redis"
	if usesRedis && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}

	usesSQLite := c.Cache.Type == "sqlite" || c.Cache.LocalBackend() == "sqlite"
	if usesSQLite && c.Cache.SQLite.Path == "" {
		return errors.New("sqlite path cannot be empty when using sqlite cache")
	}

	if c.Browser.Width < 1 || c.Browser.Height < 1 || c.Browser.DPR <= 0 {
		return errors.New("browser viewport must have positive size and dpr")
	}

	if c.Browser.MaxSessions < 1 {
		return errors.New("browser max sessions must be at least 1")
	}

	return nil
}
